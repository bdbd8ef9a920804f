package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

// publishNotification 把通知邮件丢进消息队列，由 notifier 进程消费
// 通知发送失败不影响业务操作的结果，只记录日志
func (h *Handler) publishNotification(message domain.MailMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.Error("序列化通知失败", "type", message.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mqChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	); err != nil {
		slog.Error("发送通知到消息队列失败", "type", message.Type, "error", err)
	}
}

func (h *Handler) notifyShiftAssigned(shift *domain.ScheduledShift, branchName string) {
	if shift.EmployeeID == nil {
		return
	}

	employee, err := h.repository.GetEmployeeByID(*shift.EmployeeID)
	if err != nil {
		slog.Error("查询被指派员工失败", "employee_id", *shift.EmployeeID, "error", err)
		return
	}

	h.publishNotification(domain.MailMessage{
		Type: "shift_assigned",
		To:   employee.Email,
		Data: domain.ShiftAssignedMailData{
			FullName:   employee.LastName + employee.FirstName,
			Date:       shift.Date,
			StartTime:  shift.StartTime,
			EndTime:    shift.EndTime,
			BranchName: branchName,
		},
	})
}

func (h *Handler) notifySubmissionReviewed(submission *domain.ShiftSubmission) {
	employee, err := h.repository.GetEmployeeByID(submission.EmployeeID)
	if err != nil {
		slog.Error("查询提交员工失败", "employee_id", submission.EmployeeID, "error", err)
		return
	}

	h.publishNotification(domain.MailMessage{
		Type: "submission_reviewed",
		To:   employee.Email,
		Data: domain.SubmissionReviewedMailData{
			FullName: employee.LastName + employee.FirstName,
			Approved: submission.Status == domain.SubmissionStatusApproved,
			Notes:    submission.ReviewNotes,
		},
	})
}
