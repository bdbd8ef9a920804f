package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/tenant"
)

func (h *Handler) GetMyBusinesses(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	memberships, err := h.repository.GetMembershipsByUserID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type businessWithRole struct {
		Business *domain.Business `json:"business"`
		Role     domain.Role      `json:"role"`
	}

	list := make([]businessWithRole, 0, len(memberships))
	for _, m := range memberships {
		business, err := h.repository.GetBusinessByID(m.BusinessID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		list = append(list, businessWithRole{Business: business, Role: m.Role})
	}

	h.successResponse(w, r, "获取我的商家列表成功", list)
}

func (h *Handler) GetCurrentBusiness(w http.ResponseWriter, r *http.Request) {
	bc := r.Context().Value(BusinessCtx).(*tenant.Context)

	if bc.BusinessID == nil {
		// 全局视图下没有当前商家
		h.successResponse(w, r, "当前处于全局视图", bc)
		return
	}

	business, err := h.repository.GetBusinessByID(*bc.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取当前商家成功", struct {
		Business *domain.Business `json:"business"`
		Role     domain.Role      `json:"role"`
	}{Business: business, Role: bc.Role})
}

// SwitchBusiness 显式切换商家，请求体中的商家 ID 与 X-Business-ID 请求头走同一套解析规则
func (h *Handler) SwitchBusiness(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		BusinessID int64 `json:"businessID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	business, err := h.repository.GetBusinessByID(req.BusinessID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "商家不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	memberships, err := h.repository.GetMembershipsByUserID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resolution, err := tenant.Resolve(&req.BusinessID, nil, memberships, myInfo.IsSuperAdmin)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorizedBusiness):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 切换前先把旧商家的缓存清掉
	if storedHint, err := h.getBusinessHint(r.Context(), myInfo.ID); err == nil && storedHint != nil && *storedHint != req.BusinessID {
		h.invalidateBusinessCaches(r.Context(), *storedHint)
	}

	if err := h.setBusinessHint(r.Context(), myInfo.ID, req.BusinessID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "切换商家成功", struct {
		Business *domain.Business `json:"business"`
		Role     domain.Role      `json:"role"`
	}{Business: business, Role: resolution.Context.Role})
}
