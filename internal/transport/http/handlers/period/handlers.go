package periodhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/period"
	"github.com/GTD-web/ems-backend-sub025/internal/domain/target"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/shared"
)

type Handler struct {
	Periods *period.Service
	Targets *target.Service
}

func NewHandler(periods *period.Service, targets *target.Service) *Handler {
	return &Handler{Periods: periods, Targets: targets}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/periods", h.handleCreate)
	r.Get("/periods", h.handleList)
	r.Get("/periods/{periodId}", h.handleGet)
	r.Post("/periods/{periodId}/start", h.handleStart)
	r.Post("/periods/{periodId}/complete", h.handleComplete)
	r.Put("/periods/{periodId}/settings", h.handleUpdateSettings)
	r.Delete("/periods/{periodId}", h.handleDelete)

	r.Post("/periods/{periodId}/targets", h.handleRegisterTarget)
	r.Post("/periods/{periodId}/targets/bulk", h.handleRegisterTargets)
	r.Get("/periods/{periodId}/targets", h.handleListTargets)
	r.Get("/periods/{periodId}/targets/excluded", h.handleListExcluded)
	r.Get("/periods/{periodId}/targets/{employeeId}", h.handleGetMembership)
	r.Post("/periods/{periodId}/targets/{employeeId}/exclude", h.handleExclude)
	r.Post("/periods/{periodId}/targets/{employeeId}/include", h.handleInclude)
	r.Delete("/periods/{periodId}/targets/{employeeId}", h.handleUnregister)
}

type createPeriodRequest struct {
	Name                          string `json:"name"`
	Description                   string `json:"description"`
	StartDate                     string `json:"startDate"`
	EndDate                       string `json:"endDate"`
	CriteriaSettingEnabled        bool   `json:"criteriaSettingEnabled"`
	SelfEvaluationSettingEnabled  bool   `json:"selfEvaluationSettingEnabled"`
	FinalEvaluationSettingEnabled bool   `json:"finalEvaluationSettingEnabled"`
	MaxSelfEvaluationRate         *int   `json:"maxSelfEvaluationRate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createPeriodRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	start, err := shared.RequiredDate("startDate", payload.StartDate)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	end, err := shared.RequiredDate("endDate", payload.EndDate)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	p, err := h.Periods.Create(r.Context(), period.CreateInput{
		Name:                          payload.Name,
		Description:                   payload.Description,
		StartDate:                     start,
		EndDate:                       end,
		CriteriaSettingEnabled:        payload.CriteriaSettingEnabled,
		SelfEvaluationSettingEnabled:  payload.SelfEvaluationSettingEnabled,
		FinalEvaluationSettingEnabled: payload.FinalEvaluationSettingEnabled,
		MaxSelfEvaluationRate:         payload.MaxSelfEvaluationRate,
	}, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Periods.List(r.Context())
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, periods)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Periods.Get(r.Context(), shared.PathParam(r, "periodId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, p)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	p, err := h.Periods.Start(r.Context(), shared.PathParam(r, "periodId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, p)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	p, err := h.Periods.Complete(r.Context(), shared.PathParam(r, "periodId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, p)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CriteriaSettingEnabled        *bool `json:"criteriaSettingEnabled"`
		SelfEvaluationSettingEnabled  *bool `json:"selfEvaluationSettingEnabled"`
		FinalEvaluationSettingEnabled *bool `json:"finalEvaluationSettingEnabled"`
		MaxSelfEvaluationRate         *int  `json:"maxSelfEvaluationRate"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	p, err := h.Periods.UpdateSettings(r.Context(), shared.PathParam(r, "periodId"), period.SettingsInput{
		CriteriaSettingEnabled:        payload.CriteriaSettingEnabled,
		SelfEvaluationSettingEnabled:  payload.SelfEvaluationSettingEnabled,
		FinalEvaluationSettingEnabled: payload.FinalEvaluationSettingEnabled,
		MaxSelfEvaluationRate:         payload.MaxSelfEvaluationRate,
	}, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Periods.Delete(r.Context(), shared.PathParam(r, "periodId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleRegisterTarget(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	m, err := h.Targets.Register(r.Context(), shared.PathParam(r, "periodId"), payload.EmployeeID, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, m)
}

func (h *Handler) handleRegisterTargets(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeIDs []string `json:"employeeIds"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	members, err := h.Targets.RegisterBulk(r.Context(), shared.PathParam(r, "periodId"), payload.EmployeeIDs, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Created(w, r, members)
}

func (h *Handler) handleListTargets(w http.ResponseWriter, r *http.Request) {
	includeExcluded, err := shared.QueryBool(r, "includeExcluded")
	if err != nil {
		api.Error(w, r, err)
		return
	}
	targets, err := h.Targets.ListTargets(r.Context(), shared.PathParam(r, "periodId"), includeExcluded)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, targets)
}

func (h *Handler) handleListExcluded(w http.ResponseWriter, r *http.Request) {
	targets, err := h.Targets.ListExcluded(r.Context(), shared.PathParam(r, "periodId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, targets)
}

func (h *Handler) handleGetMembership(w http.ResponseWriter, r *http.Request) {
	m, err := h.Targets.GetMembership(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, m)
}

func (h *Handler) handleExclude(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ExcludeReason string `json:"excludeReason"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, r, err)
		return
	}
	m, err := h.Targets.Exclude(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"), payload.ExcludeReason, shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, m)
}

func (h *Handler) handleInclude(w http.ResponseWriter, r *http.Request) {
	m, err := h.Targets.Include(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"), shared.Actor(r))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, m)
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	if err := h.Targets.Unregister(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"), shared.Actor(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.NoContent(w)
}
