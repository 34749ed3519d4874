package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	DeactivateEmployee(w http.ResponseWriter, r *http.Request)
	ReactivateEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.Service
}

func NewEmployeeHandler(employeeService employee.Service) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created", created)
}

func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employeeService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, emp)
}

func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	employees, err := h.employeeService.List(r.Context(), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

func (h *employeeHandlerImpl) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deactivated", nil)
}

func (h *employeeHandlerImpl) ReactivateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.Reactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee reactivated", nil)
}
