package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusPending   ShiftStatus = "pending"
	ShiftStatusApproved  ShiftStatus = "approved"
	ShiftStatusRejected  ShiftStatus = "rejected"
	ShiftStatusCompleted ShiftStatus = "completed"
)

type ShiftPriority string

const (
	ShiftPriorityCritical ShiftPriority = "critical"
	ShiftPriorityNormal   ShiftPriority = "normal"
	ShiftPriorityBackup   ShiftPriority = "backup"
)

type SlotType string

const (
	SlotTypeRequired SlotType = "required"
	SlotTypeBackup   SlotType = "backup"
)

// AssignmentSlot 是班次中的一个可分配岗位
// 第 1 个岗位固定为必要岗位，其余均为替补岗位
type AssignmentSlot struct {
	ID         string   `json:"id"`
	Position   int32    `json:"position"`
	Type       SlotType `json:"type"`
	EmployeeID *int64   `json:"employeeID"`
	IsRequired bool     `json:"isRequired"`
}

// ScheduledShift 的日期格式为 2006-01-02，时间格式为 15:04:05
// 删除班次只会将 IsArchived 置为 true，默认查询不包含已归档的班次
type ScheduledShift struct {
	ID                int64            `json:"id"`
	BusinessID        int64            `json:"businessID"`
	Date              string           `json:"date"`
	StartTime         string           `json:"startTime"`
	EndTime           string           `json:"endTime"`
	BranchID          int64            `json:"branchID"`
	EmployeeID        *int64           `json:"employeeID"`
	RoleName          string           `json:"roleName"`
	Notes             string           `json:"notes"`
	RequiredHeadcount int32            `json:"requiredHeadcount"`
	AssignmentSlots   []AssignmentSlot `json:"assignmentSlots"`
	Status            ShiftStatus      `json:"status"`
	Priority          ShiftPriority    `json:"priority"`
	IsArchived        bool             `json:"isArchived"`
	CreatedAt         time.Time        `json:"createdAt"`
	Version           int32            `json:"-"`
}
