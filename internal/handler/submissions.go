package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
	"github.com/dianpu-dev/roster-console/backend/internal/utils"
)

// CreateSubmission 员工自报空闲时段，创建后内容不可修改
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64                         `json:"employeeID" validate:"required"`
		Entries    []domain.ShiftSubmissionEntry `json:"entries" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateSubmissionEntries(req.Entries); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	// 员工必须属于当前商家
	employee, err := h.repository.GetEmployeeByID(req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if employee.BusinessID != *bc.BusinessID || employee.IsArchived {
		h.errorResponse(w, r, "员工不存在")
		return
	}

	submission := &domain.ShiftSubmission{
		BusinessID: *bc.BusinessID,
		EmployeeID: req.EmployeeID,
		Entries:    req.Entries,
	}

	if err := h.repository.InsertShiftSubmission(submission); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "shift_submissions_employee_id_fkey":
				h.errorResponse(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceSubmissions)

	h.successResponse(w, r, "提交空闲时段成功", submission)
}

func (h *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	if submissions, ok := readCache[[]*domain.ShiftSubmission](h, r.Context(), *bc.BusinessID, cacheResourceSubmissions); ok {
		h.successResponse(w, r, "获取提交记录列表成功", submissions)
		return
	}

	submissions, err := h.repository.GetSubmissionsByBusinessID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeCache(h, r.Context(), *bc.BusinessID, cacheResourceSubmissions, submissions)

	h.successResponse(w, r, "获取提交记录列表成功", submissions)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	submission := r.Context().Value(SubmissionCtx).(*domain.ShiftSubmission)
	h.successResponse(w, r, "获取提交记录成功", submission)
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status      string `json:"status" validate:"required,oneof=approved rejected"`
		ReviewNotes string `json:"reviewNotes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	submission := r.Context().Value(SubmissionCtx).(*domain.ShiftSubmission)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if submission.Status != domain.SubmissionStatusPending {
		h.errorResponse(w, r, "该提交记录已被审核")
		return
	}

	now := time.Now()
	submission.Status = domain.SubmissionStatus(req.Status)
	submission.ReviewerID = &myInfo.ID
	submission.ReviewedAt = &now
	submission.ReviewNotes = req.ReviewNotes

	if err := h.repository.ReviewShiftSubmission(submission); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "审核提交记录失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), submission.BusinessID, cacheResourceSubmissions)

	h.notifySubmissionReviewed(submission)

	h.successResponse(w, r, "审核提交记录成功", submission)
}
