package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
)

func (h *Handler) GetBranches(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	if branches, ok := readCache[[]*domain.Branch](h, r.Context(), *bc.BusinessID, cacheResourceBranches); ok {
		h.successResponse(w, r, "获取门店列表成功", branches)
		return
	}

	branches, err := h.repository.GetBranchesByBusinessID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeCache(h, r.Context(), *bc.BusinessID, cacheResourceBranches, branches)

	h.successResponse(w, r, "获取门店列表成功", branches)
}

func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
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

	branch := &domain.Branch{
		BusinessID: *bc.BusinessID,
		Name:       req.Name,
	}

	if err := h.repository.CreateBranch(branch); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "branches_business_id_name_key":
				h.badRequest(w, r, errors.New("门店名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), *bc.BusinessID, cacheResourceBranches)

	h.successResponse(w, r, "创建门店成功", branch)
}

func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)
	h.successResponse(w, r, "获取门店信息成功", branch)
}

// UpdateBranch 允许修改门店名称
// 注意：历史提交记录里保存的是提交时的门店名，改名后这些记录不会再匹配到新名字的班次
func (h *Handler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateBranch(branch); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "branches_business_id_name_key":
				h.badRequest(w, r, errors.New("门店名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新门店信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), branch.BusinessID, cacheResourceBranches)

	h.successResponse(w, r, "更新门店信息成功", branch)
}

func (h *Handler) ArchiveBranch(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	if branch.IsArchived {
		h.errorResponse(w, r, "该门店已被归档")
		return
	}

	branch.IsArchived = true

	if err := h.repository.UpdateBranch(branch); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "归档门店失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context(), branch.BusinessID, cacheResourceBranches)

	h.successResponse(w, r, "归档门店成功", nil)
}
