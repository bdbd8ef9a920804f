package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
)

func (h *Handler) GetAuditEvents(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	events, err := h.repository.GetAuditEventsByBusinessID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取审计记录成功", events)
}

// recordAuditEvent 先落库再发到消息队列
// 落库失败只记录日志，审计记录不能反过来拦截业务操作本身
func (h *Handler) recordAuditEvent(ctx context.Context, event *domain.AuditEvent) {
	if err := h.repository.InsertAuditEvent(event); err != nil {
		slog.Error("写入审计记录失败", "kind", event.Kind, "business_id", event.BusinessID, "error", err)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("序列化审计记录失败", "kind", event.Kind, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mqChannel.PublishWithContext(
		pubCtx,
		"",
		"audit_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	); err != nil {
		slog.Error("发送审计记录到消息队列失败", "kind", event.Kind, "error", err)
	}
}
