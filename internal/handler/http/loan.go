package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/handler/http/response"
)

type LoanHandler interface {
	RegisterLoan(w http.ResponseWriter, r *http.Request)
	PreviewInstallment(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	ListEmployeeLoans(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.Service
}

func NewLoanHandler(loanService loan.Service) LoanHandler {
	return &loanHandlerImpl{loanService: loanService}
}

func (h *loanHandlerImpl) RegisterLoan(w http.ResponseWriter, r *http.Request) {
	var req loan.RegisterLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.loanService.RegisterLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Loan registered", created)
}

func (h *loanHandlerImpl) PreviewInstallment(w http.ResponseWriter, r *http.Request) {
	var req loan.PreviewInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	preview, err := h.loanService.PreviewInstallment(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, preview)
}

func (h *loanHandlerImpl) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.loanService.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, l)
}

func (h *loanHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	loans, err := h.loanService.ListLoans(r.Context(), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, loans)
}

func (h *loanHandlerImpl) ListEmployeeLoans(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	loans, err := h.loanService.ListEmployeeLoans(r.Context(), chi.URLParam(r, "id"), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, loans)
}
