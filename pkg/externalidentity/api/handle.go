package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/externalidentity"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	externalIdentityService *externalidentity.ExternalIdentityService
}

func NewHandle(externalIdentityService *externalidentity.ExternalIdentityService) *Handle {
	return &Handle{
		externalIdentityService: externalIdentityService,
	}
}

func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.externalIdentityService.FilterExternalIdentities(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "externalIdentityId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.externalIdentityService.GetExternalIdentity(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto externalidentity.ExternalIdentityDTO
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

	created, err := h.externalIdentityService.CreateExternalIdentity(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "externalIdentityId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto externalidentity.ExternalIdentityDTO
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

	updated, err := h.externalIdentityService.UpdateExternalIdentity(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "externalIdentityId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.externalIdentityService.DeleteExternalIdentity(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForUser handles GET /users/{userId}/external-identities
func (h *Handle) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.externalIdentityService.ListIdentitiesForUser(r.Context(), userID, utils.PageRequest(r))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// Link handles POST /users/{userId}/external-identities
func (h *Handle) Link(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var req externalidentity.LinkIdentityRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.externalIdentityService.LinkIdentity(r.Context(), userID, req, client.ActorID(r.Context()))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

// Unlink handles DELETE /users/{userId}/external-identities/{externalIdentityId}
func (h *Handle) Unlink(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	identityID, err := utils.URLParamUUID(r, "externalIdentityId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.externalIdentityService.UnlinkIdentity(r.Context(), userID, identityID); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func Routes(r chi.Router, h *Handle) {
	r.Post("/external-identities/filter", h.Filter)
	r.Post("/external-identities", h.Create)
	r.Get("/external-identities/{externalIdentityId}", h.Get)
	r.Put("/external-identities/{externalIdentityId}", h.Update)
	r.Delete("/external-identities/{externalIdentityId}", h.Delete)

	r.Get("/users/{userId}/external-identities", h.ListForUser)
	r.Post("/users/{userId}/external-identities", h.Link)
	r.Delete("/users/{userId}/external-identities/{externalIdentityId}", h.Unlink)
}
