package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 cookie 中获取 token
		cookie, err := r.Cookie("__roster_console_token")
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 验证 token
		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		ctx := context.WithValue(r.Context(), SubCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subString := r.Context().Value(SubCtxKey).(string)

		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.repository.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "个人信息不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// businessContext 为每个请求解析出它作用的商家
// 解析的输入：X-Business-ID 请求头、redis 中记忆的上次选择、用户的成员关系
// 每个请求都重新解析，解析结果不跨请求复用
func (h *Handler) businessContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

		var urlHint *int64
		if header := r.Header.Get("X-Business-ID"); header != "" {
			id, err := strconv.ParseInt(header, 10, 64)
			if err != nil {
				h.errorResponse(w, r, "商家ID无效")
				return
			}
			urlHint = &id
		}

		storedHint, err := h.getBusinessHint(r.Context(), myInfo.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		memberships, err := h.repository.GetMembershipsByUserID(myInfo.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		resolution, err := tenant.Resolve(urlHint, storedHint, memberships, myInfo.IsSuperAdmin)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthorizedBusiness), errors.Is(err, domain.ErrNoBusinessAvailable):
				h.errorResponse(w, r, err.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if resolution.Context.BusinessID != nil {
			// 超级管理员可以直接指定任意商家，这里要确认它确实存在
			if _, err := h.repository.GetBusinessByID(*resolution.Context.BusinessID); err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					h.errorResponse(w, r, "商家不存在")
				default:
					h.internalServerError(w, r, err)
				}
				return
			}
		}

		if resolution.Persist {
			// 商家切换时，旧商家的所有缓存都必须失效，不只是班次
			if storedHint != nil && *storedHint != *resolution.Context.BusinessID {
				h.invalidateBusinessCaches(r.Context(), *storedHint)
			}
			if err := h.setBusinessHint(r.Context(), myInfo.ID, *resolution.Context.BusinessID); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), BusinessCtx, &resolution.Context)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireBusiness 拦截还没有选定商家的全局视图
func (h *Handler) requireBusiness(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bc := r.Context().Value(BusinessCtx).(*tenant.Context)
		if bc.BusinessID == nil {
			h.errorResponse(w, r, "请先选择一个商家")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) RequiredBusinessRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bc := r.Context().Value(BusinessCtx).(*tenant.Context)
			if !slices.Contains(roles, bc.Role) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// shiftInfo 加载班次并确认它属于当前商家，已归档的班次也允许按 ID 直查
func (h *Handler) shiftInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shiftIDParam := chi.URLParam(r, "id")
		shiftID, err := strconv.ParseInt(shiftIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "班次ID无效")
			return
		}

		shift, err := h.repository.GetShiftByID(shiftID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "班次不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		bc := r.Context().Value(BusinessCtx).(*tenant.Context)
		if shift.BusinessID != *bc.BusinessID {
			// 不泄露其他商家的班次是否存在
			h.errorResponse(w, r, "班次不存在")
			return
		}

		ctx := context.WithValue(r.Context(), ShiftCtx, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) employeeInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employeeIDParam := chi.URLParam(r, "id")
		employeeID, err := strconv.ParseInt(employeeIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}

		employee, err := h.repository.GetEmployeeByID(employeeID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		bc := r.Context().Value(BusinessCtx).(*tenant.Context)
		if employee.BusinessID != *bc.BusinessID {
			h.errorResponse(w, r, "员工不存在")
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeCtx, employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) branchInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		branchIDParam := chi.URLParam(r, "id")
		branchID, err := strconv.ParseInt(branchIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "门店ID无效")
			return
		}

		branch, err := h.repository.GetBranchByID(branchID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "门店不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		bc := r.Context().Value(BusinessCtx).(*tenant.Context)
		if branch.BusinessID != *bc.BusinessID {
			h.errorResponse(w, r, "门店不存在")
			return
		}

		ctx := context.WithValue(r.Context(), BranchCtx, branch)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) submissionInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		submissionIDParam := chi.URLParam(r, "id")
		submissionID, err := strconv.ParseInt(submissionIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "提交记录ID无效")
			return
		}

		submission, err := h.repository.GetShiftSubmissionByID(submissionID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "提交记录不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		bc := r.Context().Value(BusinessCtx).(*tenant.Context)
		if submission.BusinessID != *bc.BusinessID {
			h.errorResponse(w, r, "提交记录不存在")
			return
		}

		ctx := context.WithValue(r.Context(), SubmissionCtx, submission)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
