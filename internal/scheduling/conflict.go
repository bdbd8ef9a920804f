package scheduling

import (
	"crypto/subtle"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

// ConflictOutcome 是一次指派冲突检查的结果，无论哪种结果都必须写入审计记录
type ConflictOutcome string

const (
	// 没有冲突，正常指派
	ConflictOutcomeClear ConflictOutcome = "clear"
	// 存在冲突且没有提供有效的覆盖码，指派必须被拦截
	ConflictOutcomeBlocked ConflictOutcome = "blocked"
	// 存在冲突但提供了有效的覆盖码，指派可以继续，但要与正常指派区分留痕
	ConflictOutcomeOverridden ConflictOutcome = "overridden"
)

type ConflictResult struct {
	Outcome   ConflictOutcome
	Conflicts []*domain.ScheduledShift
}

// ConflictDetector 检查员工指派是否会造成同一天在同一门店的重复排班
type ConflictDetector struct {
	overrideSecret string
}

func NewConflictDetector(overrideSecret string) *ConflictDetector {
	return &ConflictDetector{overrideSecret: overrideSecret}
}

// VerifyOverrideCode 校验覆盖码，覆盖码同时用于强制指派和破坏性的批量操作
func (d *ConflictDetector) VerifyOverrideCode(code string) bool {
	if code == "" || d.overrideSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(d.overrideSecret)) == 1
}

// Check 在已加载的候选班次中找出与提议指派冲突的班次
// 规则：同一员工不允许在同一（商家, 日期, 门店）上持有两个未归档的班次，
// 正在编辑的班次本身除外；任何状态（包括 pending）都参与冲突判断
func (d *ConflictDetector) Check(candidates []*domain.ScheduledShift, employeeID int64, date string, branchID int64, excludeShiftID int64, overrideCode string) *ConflictResult {
	conflicts := make([]*domain.ScheduledShift, 0)
	for _, shift := range candidates {
		if shift.ID == excludeShiftID {
			continue
		}
		if shift.IsArchived {
			continue
		}
		if shift.Date != date || shift.BranchID != branchID {
			continue
		}
		if shiftHoldsEmployee(shift, employeeID) {
			conflicts = append(conflicts, shift)
		}
	}

	if len(conflicts) == 0 {
		return &ConflictResult{Outcome: ConflictOutcomeClear}
	}

	if d.VerifyOverrideCode(overrideCode) {
		return &ConflictResult{Outcome: ConflictOutcomeOverridden, Conflicts: conflicts}
	}

	return &ConflictResult{Outcome: ConflictOutcomeBlocked, Conflicts: conflicts}
}

func shiftHoldsEmployee(shift *domain.ScheduledShift, employeeID int64) bool {
	if shift.EmployeeID != nil && *shift.EmployeeID == employeeID {
		return true
	}
	for _, slot := range shift.AssignmentSlots {
		if slot.EmployeeID != nil && *slot.EmployeeID == employeeID {
			return true
		}
	}
	return false
}
