package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payroll"
	"github.com/paiero-app/paiero-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	OpenPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	RunPayroll(w http.ResponseWriter, r *http.Request)
	FinalizePeriod(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.OpenPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	period, err := h.payrollService.OpenPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll period opened", period)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.payrollService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, periods)
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.payrollService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, period)
}

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	report, err := h.payrollService.RunPayroll(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll run completed", report)
}

func (h *payrollHandlerImpl) FinalizePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.payrollService.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll period finalized", period)
}

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.payrollService.ListRecords(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.payrollService.GetRecord(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rec)
}

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.payrollService.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
