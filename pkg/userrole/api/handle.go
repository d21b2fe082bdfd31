package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/userrole"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	userRoleService *userrole.UserRoleService
}

func NewHandle(userRoleService *userrole.UserRoleService) *Handle {
	return &Handle{
		userRoleService: userRoleService,
	}
}

func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.userRoleService.FilterUserRoles(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userRoleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.userRoleService.GetUserRole(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto userrole.UserRoleDTO
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

	created, err := h.userRoleService.CreateUserRole(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userRoleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto userrole.UserRoleDTO
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

	updated, err := h.userRoleService.UpdateUserRole(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userRoleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.userRoleService.DeleteUserRole(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForUser handles GET /users/{userId}/roles
func (h *Handle) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.userRoleService.ListRolesForUser(r.Context(), userID, utils.PageRequest(r))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// AssignToUser handles POST /users/{userId}/roles
func (h *Handle) AssignToUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var req userrole.AssignRoleRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.userRoleService.AssignRoleToUser(r.Context(), userID, req, client.ActorID(r.Context()))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

// RemoveFromUser handles DELETE /users/{userId}/roles/{roleId}
func (h *Handle) RemoveFromUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	roleID, err := utils.URLParamUUID(r, "roleId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.userRoleService.RemoveRoleFromUser(r.Context(), userID, roleID); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes registers the user role endpoints, including the nested
// /users/{userId}/roles routes.
func Routes(r chi.Router, h *Handle) {
	r.Post("/user-roles/filter", h.Filter)
	r.Post("/user-roles", h.Create)
	r.Get("/user-roles/{userRoleId}", h.Get)
	r.Put("/user-roles/{userRoleId}", h.Update)
	r.Delete("/user-roles/{userRoleId}", h.Delete)

	r.Get("/users/{userId}/roles", h.ListForUser)
	r.Post("/users/{userId}/roles", h.AssignToUser)
	r.Delete("/users/{userId}/roles/{roleId}", h.RemoveFromUser)
}
