package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// 缓存按商家和资源分键，商家切换或写操作触发整片失效
const (
	cacheResourceShifts      = "shifts"
	cacheResourceEmployees   = "employees"
	cacheResourceBranches    = "branches"
	cacheResourceSubmissions = "submissions"
	cacheResourceSettings    = "settings"
)

var businessCacheResources = []string{
	cacheResourceShifts,
	cacheResourceEmployees,
	cacheResourceBranches,
	cacheResourceSubmissions,
	cacheResourceSettings,
}

func businessCacheKey(businessID int64, resource string) string {
	return fmt.Sprintf("cache_business_%d_%s", businessID, resource)
}

func businessHintKey(userID int64) string {
	return fmt.Sprintf("business_hint_%d", userID)
}

// getBusinessHint 读取用户上一次选定的商家，没有记录时返回 nil
func (h *Handler) getBusinessHint(ctx context.Context, userID int64) (*int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	hint, err := h.redisClient.Get(opCtx, businessHintKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return &hint, nil
}

func (h *Handler) setBusinessHint(ctx context.Context, userID int64, businessID int64) error {
	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	// 提示不设置过期时间，失效由解析逻辑兜底
	return h.redisClient.Set(opCtx, businessHintKey(userID), businessID, 0).Err()
}

// readCache 尝试命中商家级列表缓存，未命中或 redis 出错都返回 false，不影响主流程
func readCache[T any](h *Handler, ctx context.Context, businessID int64, resource string) (T, bool) {
	var value T

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := h.redisClient.Get(opCtx, businessCacheKey(businessID, resource)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取缓存失败", "business_id", businessID, "resource", resource, "error", err)
		}
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("反序列化缓存失败", "business_id", businessID, "resource", resource, "error", err)
		return value, false
	}

	return value, true
}

func writeCache(h *Handler, ctx context.Context, businessID int64, resource string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("序列化缓存失败", "business_id", businessID, "resource", resource, "error", err)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	ttl := time.Duration(h.config.Redis.CacheExpiration) * time.Second
	if err := h.redisClient.Set(opCtx, businessCacheKey(businessID, resource), data, ttl).Err(); err != nil {
		slog.Warn("写入缓存失败", "business_id", businessID, "resource", resource, "error", err)
	}
}

func (h *Handler) invalidateCache(ctx context.Context, businessID int64, resource string) {
	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(opCtx, businessCacheKey(businessID, resource)).Err(); err != nil {
		slog.Warn("清除缓存失败", "business_id", businessID, "resource", resource, "error", err)
	}
}

// invalidateBusinessCaches 清除一个商家名下的全部列表缓存，商家切换时调用
func (h *Handler) invalidateBusinessCaches(ctx context.Context, businessID int64) {
	keys := make([]string, 0, len(businessCacheResources))
	for _, resource := range businessCacheResources {
		keys = append(keys, businessCacheKey(businessID, resource))
	}

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(opCtx, keys...).Err(); err != nil {
		slog.Warn("清除商家缓存失败", "business_id", businessID, "error", err)
	}
}
