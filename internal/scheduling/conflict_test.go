package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

const testOverrideSecret = "manager-override-secret"

func shiftWithEmployee(id int64, employeeID int64, date string, branchID int64) *domain.ScheduledShift {
	return &domain.ScheduledShift{
		ID:         id,
		BusinessID: 1,
		Date:       date,
		StartTime:  "09:00:00",
		EndTime:    "17:00:00",
		BranchID:   branchID,
		EmployeeID: ptr(employeeID),
		Status:     domain.ShiftStatusPending,
	}
}

func TestCheckNoConflict(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	candidates := []*domain.ScheduledShift{
		shiftWithEmployee(1, 7, "2025-03-01", 2), // 不同门店
		shiftWithEmployee(2, 8, "2025-03-01", 1), // 不同员工
	}

	res := d.Check(candidates, 7, "2025-03-01", 1, 0, "")
	require.Equal(t, ConflictOutcomeClear, res.Outcome)
	require.Empty(t, res.Conflicts)
}

func TestCheckBlockedWithoutOverride(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	conflicting := shiftWithEmployee(1, 7, "2025-03-01", 1)
	res := d.Check([]*domain.ScheduledShift{conflicting}, 7, "2025-03-01", 1, 0, "")

	require.Equal(t, ConflictOutcomeBlocked, res.Outcome)
	require.Len(t, res.Conflicts, 1)
	require.Equal(t, int64(1), res.Conflicts[0].ID)
}

func TestCheckOverriddenWithValidCode(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	conflicting := shiftWithEmployee(1, 7, "2025-03-01", 1)
	res := d.Check([]*domain.ScheduledShift{conflicting}, 7, "2025-03-01", 1, 0, testOverrideSecret)

	// 覆盖通过时冲突列表仍然要带上，留痕需要它
	require.Equal(t, ConflictOutcomeOverridden, res.Outcome)
	require.Len(t, res.Conflicts, 1)
}

func TestCheckWrongOverrideCodeStillBlocks(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	conflicting := shiftWithEmployee(1, 7, "2025-03-01", 1)
	res := d.Check([]*domain.ScheduledShift{conflicting}, 7, "2025-03-01", 1, 0, "wrong-code")

	require.Equal(t, ConflictOutcomeBlocked, res.Outcome)
}

func TestCheckExcludesShiftBeingEdited(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	editing := shiftWithEmployee(5, 7, "2025-03-01", 1)
	res := d.Check([]*domain.ScheduledShift{editing}, 7, "2025-03-01", 1, 5, "")

	require.Equal(t, ConflictOutcomeClear, res.Outcome)
}

func TestCheckIgnoresArchivedShifts(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	archived := shiftWithEmployee(1, 7, "2025-03-01", 1)
	archived.IsArchived = true
	res := d.Check([]*domain.ScheduledShift{archived}, 7, "2025-03-01", 1, 0, "")

	require.Equal(t, ConflictOutcomeClear, res.Outcome)
}

func TestCheckPendingShiftsStillConflict(t *testing.T) {
	// 未审核的班次同样参与冲突判断，审核通过后它就是一次真实的重复排班
	d := NewConflictDetector(testOverrideSecret)

	pending := shiftWithEmployee(1, 7, "2025-03-01", 1)
	pending.Status = domain.ShiftStatusPending
	res := d.Check([]*domain.ScheduledShift{pending}, 7, "2025-03-01", 1, 0, "")

	require.Equal(t, ConflictOutcomeBlocked, res.Outcome)
}

func TestCheckDetectsEmployeeOnBackupSlot(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	shift := shiftWithEmployee(1, 99, "2025-03-01", 1)
	shift.AssignmentSlots = []domain.AssignmentSlot{
		{ID: "a", Position: 1, Type: domain.SlotTypeRequired, IsRequired: true, EmployeeID: ptr(int64(99))},
		{ID: "b", Position: 2, Type: domain.SlotTypeBackup, EmployeeID: ptr(int64(7))},
	}

	res := d.Check([]*domain.ScheduledShift{shift}, 7, "2025-03-01", 1, 0, "")
	require.Equal(t, ConflictOutcomeBlocked, res.Outcome)
}

func TestVerifyOverrideCode(t *testing.T) {
	d := NewConflictDetector(testOverrideSecret)

	require.True(t, d.VerifyOverrideCode(testOverrideSecret))
	require.False(t, d.VerifyOverrideCode("wrong"))
	require.False(t, d.VerifyOverrideCode(""))

	// 没有配置覆盖码时永远拒绝，避免空比空通过
	empty := NewConflictDetector("")
	require.False(t, empty.VerifyOverrideCode(""))
}
