package domain

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// ShiftSubmissionEntry 记录员工自报的一个空闲时段
// 这里的门店用名称而不是外键来记录，因为员工提交时班次可能还没有建立
// 注意：如果门店在提交之后被重命名，这条记录将不再能匹配到任何班次
type ShiftSubmissionEntry struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	BranchName     string `json:"branchName"`
	RolePreference string `json:"rolePreference"`
	Notes          string `json:"notes"`
}

// ShiftSubmission 的内容在创建后不可修改，只有审核字段允许变化
type ShiftSubmission struct {
	ID          int64                  `json:"id"`
	BusinessID  int64                  `json:"businessID"`
	EmployeeID  int64                  `json:"employeeID"`
	Status      SubmissionStatus       `json:"status"`
	ReviewerID  *int64                 `json:"reviewerID"`
	ReviewedAt  *time.Time             `json:"reviewedAt"`
	ReviewNotes string                 `json:"reviewNotes"`
	Entries     []ShiftSubmissionEntry `json:"entries"`
	CreatedAt   time.Time              `json:"createdAt"`
	Version     int32                  `json:"-"`
}
