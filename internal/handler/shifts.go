package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/scheduling"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
	"github.com/dianpu-dev/roster-console/backend/internal/utils"
)

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	// 超级管理员未选定商家时进入全局视图，可以看到所有商家的班次
	// 全局视图不走缓存，缓存都是按商家分键的
	if bc.BusinessID == nil {
		shifts, err := h.repository.GetAllShifts()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "获取班次列表成功", shifts)
		return
	}

	if shifts, ok := readCache[[]*domain.ScheduledShift](h, r.Context(), *bc.BusinessID, cacheResourceShifts); ok {
		h.successResponse(w, r, "获取班次列表成功", shifts)
		return
	}

	shifts, err := h.repository.GetShiftsByBusinessID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeCache(h, r.Context(), *bc.BusinessID, cacheResourceShifts, shifts)

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.ScheduledShift)
	h.successResponse(w, r, "获取班次信息成功", shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date              string `json:"date" validate:"required"`
		StartTime         string `json:"startTime" validate:"required"`
		EndTime           string `json:"endTime" validate:"required"`
		BranchID          int64  `json:"branchID" validate:"required"`
		EmployeeID        *int64 `json:"employeeID"`
		RoleName          string `json:"roleName"`
		Notes             string `json:"notes"`
		RequiredHeadcount int32  `json:"requiredHeadcount" validate:"required,min=1"`
		Priority          string `json:"priority" validate:"omitempty,oneof=critical normal backup"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftDate(req.Date); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftTimeWindow(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bc := r.Context().Value(BusinessCtx).(*tenant.Context)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 门店必须属于当前商家
	branch, err := h.repository.GetBranchByID(req.BranchID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "门店不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if branch.BusinessID != *bc.BusinessID || branch.IsArchived {
		h.errorResponse(w, r, "门店不存在")
		return
	}

	// 指定了员工时先做重复排班检查，无论结果如何都留痕
	// 数据库里的唯一索引会兜住并发窗口，这里只是为了提前给出友好的报错
	if req.EmployeeID != nil {
		exists, err := h.repository.ExistsDuplicateShift(*bc.BusinessID, req.Date, req.StartTime, req.EndTime, *req.EmployeeID, req.BranchID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		event := &domain.AuditEvent{
			BusinessID: *bc.BusinessID,
			ActorID:    myInfo.ID,
			Kind:       domain.AuditDuplicateClear,
			EmployeeID: req.EmployeeID,
			BranchID:   &req.BranchID,
			Date:       req.Date,
			Details:    fmt.Sprintf("%s-%s", req.StartTime, req.EndTime),
		}
		if exists {
			event.Kind = domain.AuditDuplicateBlocked
			h.recordAuditEvent(r.Context(), event)
			h.errorResponse(w, r, domain.ErrDuplicateShift.Error())
			return
		}
		h.recordAuditEvent(r.Context(), event)
	}

	priority := domain.ShiftPriorityNormal
	if req.Priority != "" {
		priority = domain.ShiftPriority(req.Priority)
	}

	shift := &domain.ScheduledShift{
		BusinessID:        *bc.BusinessID,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		BranchID:          req.BranchID,
		EmployeeID:        req.EmployeeID,
		RoleName:          req.RoleName,
		Notes:             req.Notes,
		RequiredHeadcount: req.RequiredHeadcount,
		Status:            domain.ShiftStatusPending,
		Priority:          priority,
	}

	shift.AssignmentSlots = scheduling.RegenerateSlots(nil, req.RequiredHeadcount)
	if req.EmployeeID != nil {
		// 主指派员工固定占据第 1 个岗位
		shift.AssignmentSlots[0].EmployeeID = req.EmployeeID
	}

	if err := h.repository.CreateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "scheduled_shifts_no_duplicate":
				// 并发创建时被唯一索引拦下，留痕方式与应用层检查一致
				h.recordAuditEvent(r.Context(), &domain.AuditEvent{
					BusinessID: *bc.BusinessID,
					ActorID:    myInfo.ID,
					Kind:       domain.AuditDuplicateBlocked,
					EmployeeID: req.EmployeeID,
					BranchID:   &req.BranchID,
					Date:       req.Date,
					Details:    fmt.Sprintf("%s-%s", req.StartTime, req.EndTime),
				})
				h.errorResponse(w, r, domain.ErrDuplicateShift.Error())
			case pgErr.ConstraintName == "scheduled_shifts_branch_id_fkey":
				h.errorResponse(w, r, "门店不存在")
			case pgErr.ConstraintName == "scheduled_shifts_employee_id_fkey":
				h.errorResponse(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceShifts)

	if shift.EmployeeID != nil {
		h.notifyShiftAssigned(shift, branch.Name)
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date              *string `json:"date"`
		StartTime         *string `json:"startTime"`
		EndTime           *string `json:"endTime"`
		BranchID          *int64  `json:"branchID"`
		EmployeeID        *int64  `json:"employeeID"`
		RoleName          *string `json:"roleName"`
		Notes             *string `json:"notes"`
		RequiredHeadcount *int32  `json:"requiredHeadcount" validate:"omitempty,min=1"`
		Status            *string `json:"status" validate:"omitempty,oneof=pending approved rejected completed"`
		Priority          *string `json:"priority" validate:"omitempty,oneof=critical normal backup"`
		OverrideCode      string  `json:"overrideCode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.ScheduledShift)
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if shift.IsArchived {
		h.errorResponse(w, r, "已归档的班次不允许修改")
		return
	}

	assigningEmployee := req.EmployeeID != nil
	previousEmployeeID := shift.EmployeeID

	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.BranchID != nil {
		shift.BranchID = *req.BranchID
	}
	if req.EmployeeID != nil {
		shift.EmployeeID = req.EmployeeID
	}
	if req.RoleName != nil {
		shift.RoleName = *req.RoleName
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}
	if req.Status != nil {
		shift.Status = domain.ShiftStatus(*req.Status)
	}
	if req.Priority != nil {
		shift.Priority = domain.ShiftPriority(*req.Priority)
	}

	if err := utils.ValidateShiftDate(shift.Date); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftTimeWindow(shift.StartTime, shift.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	branch, err := h.repository.GetBranchByID(shift.BranchID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "门店不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if branch.BusinessID != *bc.BusinessID || branch.IsArchived {
		h.errorResponse(w, r, "门店不存在")
		return
	}

	// 只要更新后的班次上有指派员工，就重新做一次冲突检查，
	// 无论本次改动的是员工、日期还是门店，检查针对的都是更新后的值
	if shift.EmployeeID != nil {
		candidates, err := h.repository.GetShiftsOnDateAtBranch(*bc.BusinessID, shift.Date, shift.BranchID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		result := h.detector.Check(candidates, *shift.EmployeeID, shift.Date, shift.BranchID, shift.ID, req.OverrideCode)

		// 每次检查都留痕，这是防止重复排班的唯一卡点
		event := &domain.AuditEvent{
			BusinessID:   *bc.BusinessID,
			ActorID:      myInfo.ID,
			Kind:         domain.AuditConflictClear,
			EmployeeID:   shift.EmployeeID,
			BranchID:     &shift.BranchID,
			Date:         shift.Date,
			OverrideUsed: result.Outcome == scheduling.ConflictOutcomeOverridden,
			Details:      fmt.Sprintf("shift_id=%d conflicts=%d", shift.ID, len(result.Conflicts)),
		}

		switch result.Outcome {
		case scheduling.ConflictOutcomeBlocked:
			event.Kind = domain.AuditConflictBlocked
			h.recordAuditEvent(r.Context(), event)
			h.errorResponseWithData(w, r, (&domain.ConflictError{Conflicts: result.Conflicts}).Error(), result.Conflicts)
			return
		case scheduling.ConflictOutcomeOverridden:
			event.Kind = domain.AuditConflictOverridden
			h.recordAuditEvent(r.Context(), event)
		default:
			h.recordAuditEvent(r.Context(), event)
		}
	}

	if req.RequiredHeadcount != nil {
		shift.RequiredHeadcount = *req.RequiredHeadcount
		shift.AssignmentSlots = scheduling.RegenerateSlots(shift.AssignmentSlots, *req.RequiredHeadcount)
	}
	if assigningEmployee && len(shift.AssignmentSlots) > 0 {
		shift.AssignmentSlots[0].EmployeeID = shift.EmployeeID
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "scheduled_shifts_no_duplicate":
				h.recordAuditEvent(r.Context(), &domain.AuditEvent{
					BusinessID: *bc.BusinessID,
					ActorID:    myInfo.ID,
					Kind:       domain.AuditDuplicateBlocked,
					EmployeeID: shift.EmployeeID,
					BranchID:   &shift.BranchID,
					Date:       shift.Date,
					Details:    fmt.Sprintf("%s-%s", shift.StartTime, shift.EndTime),
				})
				h.errorResponse(w, r, domain.ErrDuplicateShift.Error())
			case pgErr.ConstraintName == "scheduled_shifts_branch_id_fkey":
				h.errorResponse(w, r, "门店不存在")
			case pgErr.ConstraintName == "scheduled_shifts_employee_id_fkey":
				h.errorResponse(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceShifts)

	// 只在指派的员工真的变化时发通知，避免重复邮件
	if assigningEmployee && (previousEmployeeID == nil || *previousEmployeeID != *shift.EmployeeID) {
		h.notifyShiftAssigned(shift, branch.Name)
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) ArchiveShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.ScheduledShift)

	if shift.IsArchived {
		h.errorResponse(w, r, "该班次已被归档")
		return
	}

	if err := h.repository.ArchiveShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "归档班次失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), shift.BusinessID, cacheResourceShifts)

	h.successResponse(w, r, "归档班次成功", nil)
}

// BulkArchiveShifts 批量归档一个日期区间内的所有班次，属于破坏性操作，必须提供覆盖码
func (h *Handler) BulkArchiveShifts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate    string `json:"startDate" validate:"required"`
		EndDate      string `json:"endDate" validate:"required"`
		OverrideCode string `json:"overrideCode" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftDate(req.StartDate); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftDate(req.EndDate); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.EndDate < req.StartDate {
		h.badRequest(w, r, errors.New("结束日期不能早于开始日期"))
		return
	}

	if !h.detector.VerifyOverrideCode(req.OverrideCode) {
		h.errorResponse(w, r, "覆盖码错误")
		return
	}

	bc := r.Context().Value(BusinessCtx).(*tenant.Context)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	count, err := h.repository.ArchiveShiftsInRange(*bc.BusinessID, req.StartDate, req.EndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.recordAuditEvent(r.Context(), &domain.AuditEvent{
		BusinessID:   *bc.BusinessID,
		ActorID:      myInfo.ID,
		Kind:         domain.AuditBulkArchive,
		Date:         req.StartDate,
		OverrideUsed: true,
		Details:      fmt.Sprintf("%s~%s archived=%d", req.StartDate, req.EndDate, count),
	})

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceShifts)

	h.successResponse(w, r, "批量归档班次成功", struct {
		Archived int64 `json:"archived"`
	}{Archived: count})
}

// GetShiftCandidates 列出提交过与该班次完全匹配的空闲时段的员工
// 匹配按（日期, 起止时间, 门店名称）的值完成，门店改名后历史提交不再匹配
func (h *Handler) GetShiftCandidates(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.ScheduledShift)

	branch, err := h.repository.GetBranchByID(shift.BranchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	submissions, err := h.repository.GetSubmissionsByBusinessID(shift.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	candidates := scheduling.MatchingEmployees(shift, submissions, branch.Name)

	type candidateInfo struct {
		Employee       *domain.Employee `json:"employee"`
		RolePreference string           `json:"rolePreference"`
		Notes          string           `json:"notes"`
	}

	list := make([]candidateInfo, 0, len(candidates))
	for _, c := range candidates {
		employee, err := h.repository.GetEmployeeByID(c.EmployeeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// 员工数据被删除时跳过这条候选
				slog.Warn("候选员工不存在", "employee_id", c.EmployeeID, "shift_id", shift.ID)
				continue
			}
			h.internalServerError(w, r, err)
			return
		}
		list = append(list, candidateInfo{
			Employee:       employee,
			RolePreference: c.RolePreference,
			Notes:          c.Notes,
		})
	}

	h.successResponse(w, r, "获取候选员工成功", list)
}
