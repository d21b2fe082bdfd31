package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/useraccount"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	userAccountService *useraccount.UserAccountService
}

func NewHandle(userAccountService *useraccount.UserAccountService) *Handle {
	return &Handle{
		userAccountService: userAccountService,
	}
}

// Filter handles POST /users/filter
func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.userAccountService.FilterUserAccounts(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// Get handles GET /users/{userId}
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.userAccountService.GetUserAccount(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

// Create handles POST /users
func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto useraccount.UserAccountDTO
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

	created, err := h.userAccountService.CreateUserAccount(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

// Update handles PUT /users/{userId}
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto useraccount.UserAccountDTO
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

	updated, err := h.userAccountService.UpdateUserAccount(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /users/{userId}
func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.userAccountService.DeleteUserAccount(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes registers the user account endpoints on r.
func Routes(r chi.Router, h *Handle) {
	r.Post("/users/filter", h.Filter)
	r.Post("/users", h.Create)
	r.Get("/users/{userId}", h.Get)
	r.Put("/users/{userId}", h.Update)
	r.Delete("/users/{userId}", h.Delete)
}
