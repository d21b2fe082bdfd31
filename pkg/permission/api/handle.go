package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/permission"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	permissionService *permission.PermissionService
}

func NewHandle(permissionService *permission.PermissionService) *Handle {
	return &Handle{
		permissionService: permissionService,
	}
}

func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.permissionService.FilterPermissions(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "permissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.permissionService.GetPermission(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto permission.PermissionDTO
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

	created, err := h.permissionService.CreatePermission(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "permissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto permission.PermissionDTO
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

	updated, err := h.permissionService.UpdatePermission(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "permissionId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.permissionService.DeletePermission(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func Routes(r chi.Router, h *Handle) {
	r.Post("/permissions/filter", h.Filter)
	r.Post("/permissions", h.Create)
	r.Get("/permissions/{permissionId}", h.Get)
	r.Put("/permissions/{permissionId}", h.Update)
	r.Delete("/permissions/{permissionId}", h.Delete)
}
