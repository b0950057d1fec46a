package criteriahandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/criteria"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/shared"
)

type Handler struct {
	Service *criteria.Service
}

func NewHandler(service *criteria.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/criteria", h.handleCreate)
	r.Get("/criteria", h.handleList)
	r.Put("/criteria/{criteriaId}", h.handleUpdate)
	r.Delete("/criteria/{criteriaId}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload criteria.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	c, err := h.Service.Create(r.Context(), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), shared.Query(r, "wbsItemId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(list))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload criteria.UpdateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	c, err := h.Service.Update(r.Context(), shared.PathParam(r, "criteriaId"), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), shared.PathParam(r, "criteriaId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}
