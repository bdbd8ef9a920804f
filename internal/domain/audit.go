package domain

import "time"

type AuditEventKind string

const (
	// 冲突检查的三种结果：无冲突、被拦截、使用覆盖码强制通过
	AuditConflictClear      AuditEventKind = "conflict_clear"
	AuditConflictBlocked    AuditEventKind = "conflict_blocked"
	AuditConflictOverridden AuditEventKind = "conflict_overridden"
	// 重复排班检查的两种结果，与冲突检查一样每次都留痕
	AuditDuplicateClear   AuditEventKind = "duplicate_clear"
	AuditDuplicateBlocked AuditEventKind = "duplicate_blocked"
	// 批量归档班次
	AuditBulkArchive AuditEventKind = "bulk_archive"
)

// AuditEvent 是重复排班和冲突检查的唯一留痕手段，无论检查结果如何都必须记录
type AuditEvent struct {
	ID           int64          `json:"id"`
	BusinessID   int64          `json:"businessID"`
	ActorID      int64          `json:"actorID"`
	Kind         AuditEventKind `json:"kind"`
	EmployeeID   *int64         `json:"employeeID"`
	BranchID     *int64         `json:"branchID"`
	Date         string         `json:"date"`
	OverrideUsed bool           `json:"overrideUsed"`
	Details      string         `json:"details"`
	CreatedAt    time.Time      `json:"createdAt"`
}
