package evaluationhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/evaluation"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluation.Service
}

func NewHandler(service *evaluation.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Put("/self-evaluations", h.handleUpsertSelf)
	r.Get("/self-evaluations", h.handleListSelf)
	r.Post("/self-evaluations/submit-all", h.handleSubmitAllSelf)
	r.Get("/self-evaluations/{evaluationId}", h.handleGetSelf)
	r.Post("/self-evaluations/{evaluationId}/submit-to-evaluator", h.handleSubmitSelfToEvaluator)
	r.Post("/self-evaluations/{evaluationId}/submit-to-manager", h.handleSubmitSelfToManager)
	r.Delete("/self-evaluations/{evaluationId}", h.handleDeleteSelf)

	r.Get("/downward-evaluations", h.handleListDownward)
	r.Put("/downward-evaluations/{evaluationType}", h.handleUpsertDownward)
	r.Get("/downward-evaluations/{evaluationId}", h.handleGetDownward)
	r.Post("/downward-evaluations/{evaluationId}/submit", h.handleSubmitDownward)

	r.Put("/peer-evaluations", h.handleRequestPeer)
	r.Get("/peer-evaluations", h.handleListPeer)
	r.Get("/peer-evaluations/{evaluationId}", h.handleGetPeer)
	r.Post("/peer-evaluations/{evaluationId}/answers", h.handleAnswerPeer)
	r.Post("/peer-evaluations/{evaluationId}/submit", h.handleSubmitPeer)
	r.Delete("/peer-evaluations/{evaluationId}", h.handleCancelPeer)

	r.Put("/final-evaluations", h.handleUpsertFinal)
	r.Get("/final-evaluations/{evaluationId}", h.handleGetFinal)
	r.Post("/final-evaluations/{evaluationId}/confirm", h.handleConfirmFinal)
	r.Post("/final-evaluations/{evaluationId}/cancel-confirmation", h.handleCancelFinalConfirmation)
}

func (h *Handler) handleUpsertSelf(w http.ResponseWriter, r *http.Request) {
	var payload evaluation.SelfUpsertInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.UpsertSelf(r.Context(), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleListSelf(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListSelf(r.Context(), shared.Query(r, "periodId"), shared.Query(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(list))
}

func (h *Handler) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetSelf(r.Context(), shared.PathParam(r, "evaluationId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleSubmitAllSelf(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PeriodID   string `json:"periodId"`
		EmployeeID string `json:"employeeId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	list, err := h.Service.SubmitAllSelfToEvaluator(r.Context(), payload.PeriodID, payload.EmployeeID, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(list))
}

func (h *Handler) handleSubmitSelfToEvaluator(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.SubmitSelfToEvaluator(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleSubmitSelfToManager(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.SubmitSelfToManager(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleDeleteSelf(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSelf(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListDownward(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListDownward(r.Context(), shared.Query(r, "periodId"), shared.Query(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(list))
}

func (h *Handler) handleUpsertDownward(w http.ResponseWriter, r *http.Request) {
	var payload evaluation.DownwardUpsertInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	payload.EvaluationType = shared.PathParam(r, "evaluationType")
	e, err := h.Service.UpsertDownward(r.Context(), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleGetDownward(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetDownward(r.Context(), shared.PathParam(r, "evaluationId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleSubmitDownward(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EvaluatorID string `json:"evaluatorId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.SubmitDownward(r.Context(), shared.PathParam(r, "evaluationId"), payload.EvaluatorID, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleRequestPeer(w http.ResponseWriter, r *http.Request) {
	var payload evaluation.PeerRequestInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.RequestPeer(r.Context(), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleListPeer(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListPeerForEvaluatee(r.Context(), shared.Query(r, "periodId"), shared.Query(r, "evaluateeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(list))
}

func (h *Handler) handleGetPeer(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetPeer(r.Context(), shared.PathParam(r, "evaluationId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleAnswerPeer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EvaluatorID string                       `json:"evaluatorId"`
		Answers     []evaluation.PeerAnswerInput `json:"answers"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.AnswerPeer(r.Context(), shared.PathParam(r, "evaluationId"), payload.EvaluatorID, payload.Answers, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleSubmitPeer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SubmittedBy string `json:"submittedBy"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.SubmitPeer(r.Context(), shared.PathParam(r, "evaluationId"), payload.SubmittedBy, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleCancelPeer(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CancelPeer(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleUpsertFinal(w http.ResponseWriter, r *http.Request) {
	var payload evaluation.FinalUpsertInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	e, err := h.Service.UpsertFinal(r.Context(), payload, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleGetFinal(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetFinal(r.Context(), shared.PathParam(r, "evaluationId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleConfirmFinal(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.ConfirmFinal(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}

func (h *Handler) handleCancelFinalConfirmation(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.CancelFinalConfirmation(r.Context(), shared.PathParam(r, "evaluationId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, e)
}
