package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/rolepermission"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	rolePermissionService *rolepermission.RolePermissionService
}

func NewHandle(rolePermissionService *rolepermission.RolePermissionService) *Handle {
	return &Handle{
		rolePermissionService: rolePermissionService,
	}
}

func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.rolePermissionService.FilterRolePermissions(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "rolePermissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.rolePermissionService.GetRolePermission(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto rolepermission.RolePermissionDTO
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

	created, err := h.rolePermissionService.CreateRolePermission(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "rolePermissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto rolepermission.RolePermissionDTO
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

	updated, err := h.rolePermissionService.UpdateRolePermission(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "rolePermissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.rolePermissionService.DeleteRolePermission(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForRole handles GET /roles/{roleId}/permissions
func (h *Handle) ListForRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.rolePermissionService.ListPermissionsForRole(r.Context(), roleID, utils.PageRequest(r))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// AssignToRole handles POST /roles/{roleId}/permissions
func (h *Handle) AssignToRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var req rolepermission.AssignPermissionRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.rolePermissionService.AssignPermissionToRole(r.Context(), roleID, req.PermissionID, client.ActorID(r.Context()))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

// RemoveFromRole handles DELETE /roles/{roleId}/permissions/{permissionId}
func (h *Handle) RemoveFromRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	permissionID, err := utils.URLParamUUID(r, "permissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.rolePermissionService.RemovePermissionFromRole(r.Context(), roleID, permissionID); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes registers the role permission endpoints, including the nested
// /roles/{roleId}/permissions routes.
func Routes(r chi.Router, h *Handle) {
	r.Post("/role-permissions/filter", h.Filter)
	r.Post("/role-permissions", h.Create)
	r.Get("/role-permissions/{rolePermissionId}", h.Get)
	r.Put("/role-permissions/{rolePermissionId}", h.Update)
	r.Delete("/role-permissions/{rolePermissionId}", h.Delete)

	r.Get("/roles/{roleId}/permissions", h.ListForRole)
	r.Post("/roles/{roleId}/permissions", h.AssignToRole)
	r.Delete("/roles/{roleId}/permissions/{permissionId}", h.RemoveFromRole)
}
