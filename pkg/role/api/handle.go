package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/role"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	roleService *role.RoleService
}

func NewHandle(roleService *role.RoleService) *Handle {
	return &Handle{
		roleService: roleService,
	}
}

// Filter handles POST /roles/filter
func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.roleService.FilterRoles(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// Get handles GET /roles/{roleId}
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

// Create handles POST /roles
func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto role.RoleDTO
	if err := utils.DecodeJSON(r, &dto, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if actor := client.ActorID(r.Context()); actor != nil {
		dto.CreatedBy = actor
		dto.UpdatedBy = actor
	}

	created, err := h.roleService.CreateRole(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

// Update handles PUT /roles/{roleId}
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto role.RoleDTO
	if err := utils.DecodeJSON(r, &dto, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if actor := client.ActorID(r.Context()); actor != nil {
		dto.UpdatedBy = actor
	}

	updated, err := h.roleService.UpdateRole(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /roles/{roleId}
func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes registers the role endpoints on r.
func Routes(r chi.Router, h *Handle) {
	r.Post("/roles/filter", h.Filter)
	r.Post("/roles", h.Create)
	r.Get("/roles/{roleId}", h.Get)
	r.Put("/roles/{roleId}", h.Update)
	r.Delete("/roles/{roleId}", h.Delete)
}
