package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

const shiftColumns = `
	s.id,
	s.business_id,
	s.date,
	s.start_time,
	s.end_time,
	s.branch_id,
	s.employee_id,
	s.role_name,
	s.notes,
	s.required_headcount,
	s.status,
	s.priority,
	s.is_archived,
	s.created_at,
	s.version,
	sl.id,
	sl.position,
	sl.type,
	sl.employee_id,
	sl.is_required
`

// scanShiftRows 把 scheduled_shifts 和 assignment_slots 的连接结果组装成班次列表
// 查询必须按 s.id, sl.position 排序，否则岗位顺序无法保证
func scanShiftRows(rows *sql.Rows) ([]*domain.ScheduledShift, error) {
	shiftsMap := make(map[int64]*domain.ScheduledShift)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			shift domain.ScheduledShift

			slotID         sql.NullString
			slotPosition   sql.NullInt32
			slotType       sql.NullString
			slotEmployeeID sql.NullInt64
			slotIsRequired sql.NullBool
		}

		dst := []any{
			&row.shift.ID,
			&row.shift.BusinessID,
			&row.shift.Date,
			&row.shift.StartTime,
			&row.shift.EndTime,
			&row.shift.BranchID,
			&row.shift.EmployeeID,
			&row.shift.RoleName,
			&row.shift.Notes,
			&row.shift.RequiredHeadcount,
			&row.shift.Status,
			&row.shift.Priority,
			&row.shift.IsArchived,
			&row.shift.CreatedAt,
			&row.shift.Version,
			&row.slotID,
			&row.slotPosition,
			&row.slotType,
			&row.slotEmployeeID,
			&row.slotIsRequired,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		shift, exists := shiftsMap[row.shift.ID]
		if !exists {
			shift = &row.shift
			shift.AssignmentSlots = make([]domain.AssignmentSlot, 0)
			shiftsMap[shift.ID] = shift
			order = append(order, shift.ID)
		}

		if !row.slotID.Valid {
			// 理论上班次至少有一个岗位，这里兜底处理脏数据
			continue
		}

		slot := domain.AssignmentSlot{
			ID:         row.slotID.String,
			Position:   row.slotPosition.Int32,
			Type:       domain.SlotType(row.slotType.String),
			IsRequired: row.slotIsRequired.Bool,
		}
		if row.slotEmployeeID.Valid {
			employeeID := row.slotEmployeeID.Int64
			slot.EmployeeID = &employeeID
		}
		shift.AssignmentSlots = append(shift.AssignmentSlots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	shifts := make([]*domain.ScheduledShift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

// GetShiftByID 按 ID 直查，已归档的班次也能查到
func (r *Repository) GetShiftByID(id int64) (*domain.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts s
		LEFT JOIN assignment_slots sl ON s.id = sl.shift_id
		WHERE s.id = $1
		ORDER BY s.id, sl.position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts, err := scanShiftRows(rows)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, sql.ErrNoRows
	}

	return shifts[0], nil
}

// GetShiftsByBusinessID 默认不返回已归档的班次
func (r *Repository) GetShiftsByBusinessID(businessID int64) ([]*domain.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts s
		LEFT JOIN assignment_slots sl ON s.id = sl.shift_id
		WHERE s.business_id = $1 AND s.is_archived = FALSE
		ORDER BY s.id, sl.position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftRows(rows)
}

// GetAllShifts 是唯一一个不带商家过滤的查询，只允许全局视图下的超级管理员使用
func (r *Repository) GetAllShifts() ([]*domain.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts s
		LEFT JOIN assignment_slots sl ON s.id = sl.shift_id
		WHERE s.is_archived = FALSE
		ORDER BY s.id, sl.position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftRows(rows)
}

// GetShiftsOnDateAtBranch 返回冲突检查的候选班次（未归档，岗位已装配）
func (r *Repository) GetShiftsOnDateAtBranch(businessID int64, date string, branchID int64) ([]*domain.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts s
		LEFT JOIN assignment_slots sl ON s.id = sl.shift_id
		WHERE s.business_id = $1 AND s.date = $2 AND s.branch_id = $3 AND s.is_archived = FALSE
		ORDER BY s.id, sl.position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID, date, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftRows(rows)
}

// ExistsDuplicateShift 检查是否已存在完全相同的（日期, 起止时间, 员工, 门店）班次
// 与数据库里的唯一索引 scheduled_shifts_no_duplicate 是同一条规则：
// 这里的检查先给出友好的报错，索引兜住并发写入的窗口
func (r *Repository) ExistsDuplicateShift(businessID int64, date, startTime, endTime string, employeeID int64, branchID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_shifts
			WHERE business_id = $1
				AND date = $2
				AND start_time = $3
				AND end_time = $4
				AND employee_id = $5
				AND branch_id = $6
				AND is_archived = FALSE
		)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	isExists := false
	args := []any{businessID, date, startTime, endTime, employeeID, branchID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, shiftID int64, slots []domain.AssignmentSlot) error {
	query := `
		INSERT INTO assignment_slots (id, shift_id, position, type, employee_id, is_required)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, slot := range slots {
		args := []any{slot.ID, shiftID, slot.Position, slot.Type, slot.EmployeeID, slot.IsRequired}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) CreateShift(shift *domain.ScheduledShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO scheduled_shifts (
			business_id,
			date,
			start_time,
			end_time,
			branch_id,
			employee_id,
			role_name,
			notes,
			required_headcount,
			status,
			priority
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_archived, created_at, version
	`

	args := []any{
		shift.BusinessID,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.BranchID,
		shift.EmployeeID,
		shift.RoleName,
		shift.Notes,
		shift.RequiredHeadcount,
		shift.Status,
		shift.Priority,
	}
	dst := []any{&shift.ID, &shift.IsArchived, &shift.CreatedAt, &shift.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	if err := insertSlots(ctx, tx, shift.ID, shift.AssignmentSlots); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateShift 整体替换岗位列表，岗位的重建逻辑在调用方完成
func (r *Repository) UpdateShift(shift *domain.ScheduledShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE scheduled_shifts
		SET
			date = $1,
			start_time = $2,
			end_time = $3,
			branch_id = $4,
			employee_id = $5,
			role_name = $6,
			notes = $7,
			required_headcount = $8,
			status = $9,
			priority = $10,
			is_archived = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING version
	`

	args := []any{
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.BranchID,
		shift.EmployeeID,
		shift.RoleName,
		shift.Notes,
		shift.RequiredHeadcount,
		shift.Status,
		shift.Priority,
		shift.IsArchived,
		shift.ID,
		shift.Version,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		return err
	}

	// 先删后插，保证岗位列表和内存中的完全一致
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_slots WHERE shift_id = $1`, shift.ID); err != nil {
		return err
	}
	if err := insertSlots(ctx, tx, shift.ID, shift.AssignmentSlots); err != nil {
		return err
	}

	return tx.Commit()
}

// ArchiveShift 归档而不是物理删除，归档后仍可按 ID 直查
func (r *Repository) ArchiveShift(shift *domain.ScheduledShift) error {
	query := `
		UPDATE scheduled_shifts
		SET is_archived = TRUE, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		return err
	}
	shift.IsArchived = true

	return nil
}

// ArchiveShiftsInRange 批量归档某商家在日期区间内的所有未归档班次，返回归档数量
func (r *Repository) ArchiveShiftsInRange(businessID int64, startDate, endDate string) (int64, error) {
	query := `
		UPDATE scheduled_shifts
		SET is_archived = TRUE, version = version + 1
		WHERE business_id = $1 AND date >= $2 AND date <= $3 AND is_archived = FALSE
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, businessID, startDate, endDate)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
