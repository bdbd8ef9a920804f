package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
)

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	if employees, ok := readCache[[]*domain.Employee](h, r.Context(), *bc.BusinessID, cacheResourceEmployees); ok {
		h.successResponse(w, r, "获取员工列表成功", employees)
		return
	}

	employees, err := h.repository.GetEmployeesByBusinessID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeCache(h, r.Context(), *bc.BusinessID, cacheResourceEmployees, employees)

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	employee := &domain.Employee{
		BusinessID: *bc.BusinessID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_business_id_email_key":
				h.badRequest(w, r, errors.New("该邮箱已被本商家的其他员工使用"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceEmployees)

	h.successResponse(w, r, "创建员工成功", employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email" validate:"omitempty,email"`
		IsActive  *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_business_id_email_key":
				h.badRequest(w, r, errors.New("该邮箱已被本商家的其他员工使用"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), employee.BusinessID, cacheResourceEmployees)

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) ArchiveEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if employee.IsArchived {
		h.errorResponse(w, r, "该员工已被归档")
		return
	}

	employee.IsArchived = true

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "归档员工失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), employee.BusinessID, cacheResourceEmployees)

	h.successResponse(w, r, "归档员工成功", nil)
}
