package scheduling

import (
	"github.com/google/uuid"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

// RegenerateSlots 根据新的需求人数重建班次的岗位列表
// 位置 1..newHeadcount 上已有的岗位会被原样保留（ID 和已分配的员工不变），
// 缺少的位置会补上全新的空岗位；缩小人数时直接截断尾部岗位，
// 被截掉的岗位上如果有员工，提醒与转移由上层自行处理
func RegenerateSlots(existing []domain.AssignmentSlot, newHeadcount int32) []domain.AssignmentSlot {
	if newHeadcount < 1 {
		newHeadcount = 1
	}

	slots := make([]domain.AssignmentSlot, 0, newHeadcount)
	for position := int32(1); position <= newHeadcount; position++ {
		var slot domain.AssignmentSlot
		if int(position) <= len(existing) {
			slot = existing[position-1]
		} else {
			slot = domain.AssignmentSlot{
				ID:         uuid.NewString(),
				EmployeeID: nil,
			}
		}

		slot.Position = position
		if position == 1 {
			slot.Type = domain.SlotTypeRequired
			slot.IsRequired = true
		} else {
			slot.Type = domain.SlotTypeBackup
			slot.IsRequired = false
		}

		slots = append(slots, slot)
	}

	return slots
}
