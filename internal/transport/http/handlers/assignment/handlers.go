package assignmenthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/assignment"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/shared"
)

type Handler struct {
	Service *assignment.Service
}

func NewHandler(service *assignment.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assignments/projects", h.handleAssignProject)
	r.Post("/assignments/projects/bulk", h.handleAssignProjectBulk)
	r.Delete("/assignments/projects/{assignmentId}", h.handleCancelProject)
	r.Post("/assignments/wbs", h.handleAssignWbs)
	r.Delete("/assignments/wbs/{assignmentId}", h.handleCancelWbs)
	r.Get("/assignments/wbs/unassigned", h.handleListUnassigned)
	r.Get("/periods/{periodId}/employees/{employeeId}/assignments", h.handleListEmployeeAssignments)

	r.Put("/evaluation-lines/{role}", h.handleSetEvaluator)
	r.Get("/evaluation-lines", h.handleListLineMappings)
}

func (h *Handler) handleAssignProject(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PeriodID   string `json:"periodId"`
		EmployeeID string `json:"employeeId"`
		ProjectID  string `json:"projectId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	a, err := h.Service.AssignProject(r.Context(), payload.PeriodID, assignment.ProjectInput{
		EmployeeID: payload.EmployeeID,
		ProjectID:  payload.ProjectID,
	}, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, a)
}

func (h *Handler) handleAssignProjectBulk(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PeriodID    string                    `json:"periodId"`
		Assignments []assignment.ProjectInput `json:"assignments"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	out, err := h.Service.AssignProjectBulk(r.Context(), payload.PeriodID, payload.Assignments, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, out)
}

func (h *Handler) handleCancelProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CancelProject(r.Context(), shared.PathParam(r, "assignmentId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleAssignWbs(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PeriodID   string `json:"periodId"`
		EmployeeID string `json:"employeeId"`
		ProjectID  string `json:"projectId"`
		WbsItemID  string `json:"wbsItemId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	out, err := h.Service.AssignWbs(r.Context(), assignment.WbsInput{
		PeriodID:   payload.PeriodID,
		EmployeeID: payload.EmployeeID,
		ProjectID:  payload.ProjectID,
		WbsItemID:  payload.WbsItemID,
	}, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, out)
}

func (h *Handler) handleCancelWbs(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Cancel(r.Context(), shared.PathParam(r, "assignmentId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListUnassigned(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListUnassigned(r.Context(), shared.Query(r, "projectId"), shared.Query(r, "periodId"), shared.Query(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, items)
}

func (h *Handler) handleListEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	periodID := shared.PathParam(r, "periodId")
	employeeID := shared.PathParam(r, "employeeId")
	projects, err := h.Service.ListProjectAssignments(r.Context(), periodID, employeeID)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	wbs, err := h.Service.ListWbsAssignments(r.Context(), periodID, employeeID)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, map[string]any{"projects": shared.NonNil(projects), "wbs": shared.NonNil(wbs)})
}

func (h *Handler) handleSetEvaluator(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PeriodID    string `json:"periodId"`
		EmployeeID  string `json:"employeeId"`
		WbsItemID   string `json:"wbsItemId"`
		EvaluatorID string `json:"evaluatorId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	m, err := h.Service.SetEvaluator(r.Context(), assignment.SetEvaluatorInput{
		Role:        shared.PathParam(r, "role"),
		PeriodID:    payload.PeriodID,
		EmployeeID:  payload.EmployeeID,
		WbsItemID:   payload.WbsItemID,
		EvaluatorID: payload.EvaluatorID,
	}, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, m)
}

// handleListLineMappings lists by evaluator when evaluatorId is given and by
// evaluatee otherwise.
func (h *Handler) handleListLineMappings(w http.ResponseWriter, r *http.Request) {
	var (
		mappings []assignment.LineMapping
		err      error
	)
	if evaluatorID := shared.Query(r, "evaluatorId"); evaluatorID != "" {
		mappings, err = h.Service.ListByEvaluator(r.Context(), evaluatorID)
	} else {
		mappings, err = h.Service.ListLineMappings(r.Context(), shared.Query(r, "employeeId"), shared.Query(r, "wbsItemId"))
	}
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, shared.NonNil(mappings))
}
