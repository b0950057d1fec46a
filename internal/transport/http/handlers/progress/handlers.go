package progresshandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/progress"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/shared"
)

type Handler struct {
	Service *progress.Service
}

func NewHandler(service *progress.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/periods/{periodId}/statuses", h.handleListStatuses)
	r.Get("/periods/{periodId}/employees/{employeeId}/assigned-data", h.handleAssignedData)
	r.Get("/periods/{periodId}/employees/{employeeId}/status", h.handleStatus)
	r.Get("/periods/{periodId}/employees/{employeeId}/report.pdf", h.handleReportPDF)
}

func (h *Handler) handleAssignedData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GetEmployeeAssignedData(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, data)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.GetEmployeeStatus(r.Context(), shared.PathParam(r, "periodId"), shared.PathParam(r, "employeeId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, status)
}

func (h *Handler) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Service.ListPeriodStatuses(r.Context(), shared.PathParam(r, "periodId"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Success(w, r, statuses)
}

// handleReportPDF renders into memory first so a rendering failure can still
// be reported as JSON.
func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	periodID := shared.PathParam(r, "periodId")
	employeeID := shared.PathParam(r, "employeeId")
	report, err := h.Service.Report(r.Context(), periodID, employeeID)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := progress.RenderReportPDF(report, &buf); err != nil {
		api.Error(w, r, fmt.Errorf("rendering report: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "progress-"+employeeID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
