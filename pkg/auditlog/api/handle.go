package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-user-mgmt/pkg/auditlog"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

type Handle struct {
	auditLogService *auditlog.AuditLogService
}

func NewHandle(auditLogService *auditlog.AuditLogService) *Handle {
	return &Handle{
		auditLogService: auditLogService,
	}
}

func (h *Handle) Filter(w http.ResponseWriter, r *http.Request) {
	var req filter.Request
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.auditLogService.FilterAuditLogs(r.Context(), req)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "auditLogId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	dto, err := h.auditLogService.GetAuditLog(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, dto)
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	var dto auditlog.AuditLogDTO
	if err := utils.DecodeJSON(r, &dto, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.auditLogService.CreateAuditLog(r.Context(), dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, created)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "auditLogId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var dto auditlog.AuditLogDTO
	if err := utils.DecodeJSON(r, &dto, false); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	updated, err := h.auditLogService.UpdateAuditLog(r.Context(), id, dto)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, updated)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamUUID(r, "auditLogId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.auditLogService.DeleteAuditLog(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByUser handles GET /audit-logs/users/{userId}
func (h *Handle) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	page, err := h.auditLogService.FindByUser(r.Context(), userID, utils.PageRequest(r))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

// ByResource handles GET /audit-logs/resources/{resourceType}/{resourceId}
func (h *Handle) ByResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resourceType")
	resourceID := chi.URLParam(r, "resourceId")

	page, err := h.auditLogService.FindByResource(r.Context(), resource, resourceID, utils.PageRequest(r))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, page)
}

func Routes(r chi.Router, h *Handle) {
	r.Post("/audit-logs/filter", h.Filter)
	r.Post("/audit-logs", h.Create)
	r.Get("/audit-logs/users/{userId}", h.ByUser)
	r.Get("/audit-logs/resources/{resourceType}/{resourceId}", h.ByResource)
	r.Get("/audit-logs/{auditLogId}", h.Get)
	r.Put("/audit-logs/{auditLogId}", h.Update)
	r.Delete("/audit-logs/{auditLogId}", h.Delete)
}
