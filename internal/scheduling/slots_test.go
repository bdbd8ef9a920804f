package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestRegenerateSlotsFromScratch(t *testing.T) {
	slots := RegenerateSlots(nil, 3)

	require.Len(t, slots, 3)
	for i, slot := range slots {
		require.Equal(t, int32(i+1), slot.Position)
		require.NotEmpty(t, slot.ID)
		require.Nil(t, slot.EmployeeID)
	}

	require.Equal(t, domain.SlotTypeRequired, slots[0].Type)
	require.True(t, slots[0].IsRequired)
	require.Equal(t, domain.SlotTypeBackup, slots[1].Type)
	require.False(t, slots[1].IsRequired)
	require.Equal(t, domain.SlotTypeBackup, slots[2].Type)
	require.False(t, slots[2].IsRequired)
}

func TestRegenerateSlotsGrowKeepsExistingAssignments(t *testing.T) {
	existing := []domain.AssignmentSlot{
		{ID: "slot-1", Position: 1, Type: domain.SlotTypeRequired, IsRequired: true, EmployeeID: ptr(int64(7))},
		{ID: "slot-2", Position: 2, Type: domain.SlotTypeBackup, EmployeeID: ptr(int64(8))},
	}

	slots := RegenerateSlots(existing, 4)

	require.Len(t, slots, 4)
	require.Equal(t, "slot-1", slots[0].ID)
	require.Equal(t, int64(7), *slots[0].EmployeeID)
	require.Equal(t, "slot-2", slots[1].ID)
	require.Equal(t, int64(8), *slots[1].EmployeeID)
	require.Nil(t, slots[2].EmployeeID)
	require.Nil(t, slots[3].EmployeeID)
	require.NotEqual(t, slots[2].ID, slots[3].ID)
}

func TestRegenerateSlotsShrinkTruncatesTail(t *testing.T) {
	existing := []domain.AssignmentSlot{
		{ID: "slot-1", Position: 1, Type: domain.SlotTypeRequired, IsRequired: true, EmployeeID: ptr(int64(7))},
		{ID: "slot-2", Position: 2, Type: domain.SlotTypeBackup, EmployeeID: ptr(int64(8))},
		{ID: "slot-3", Position: 3, Type: domain.SlotTypeBackup, EmployeeID: ptr(int64(9))},
	}

	slots := RegenerateSlots(existing, 1)

	require.Len(t, slots, 1)
	require.Equal(t, "slot-1", slots[0].ID)
	require.Equal(t, int64(7), *slots[0].EmployeeID)
	require.True(t, slots[0].IsRequired)
}

func TestRegenerateSlotsFirstPositionAlwaysRequired(t *testing.T) {
	// 原本在位置 2 的替补岗位被保留到位置 1 时，必须被改写为必要岗位
	existing := []domain.AssignmentSlot{
		{ID: "slot-1", Position: 1, Type: domain.SlotTypeRequired, IsRequired: true},
		{ID: "slot-2", Position: 2, Type: domain.SlotTypeBackup, EmployeeID: ptr(int64(8))},
	}

	slots := RegenerateSlots(existing[1:], 2)

	require.Equal(t, "slot-2", slots[0].ID)
	require.Equal(t, domain.SlotTypeRequired, slots[0].Type)
	require.True(t, slots[0].IsRequired)
	require.Equal(t, int64(8), *slots[0].EmployeeID)
}

func TestRegenerateSlotsHeadcountFloor(t *testing.T) {
	slots := RegenerateSlots(nil, 0)

	require.Len(t, slots, 1)
	require.True(t, slots[0].IsRequired)
}
