package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/domain/salaryscale"
	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
	"github.com/paiero-app/paiero-backend-go/internal/handler/http/response"
)

// ConfigHandler exposes the effective-dated jurisdiction tables:
// read-only views of the tax and rate configuration, plus salary scale
// import for collective-agreement updates.
type ConfigHandler interface {
	GetTaxBrackets(w http.ResponseWriter, r *http.Request)
	GetRates(w http.ResponseWriter, r *http.Request)
	ListScaleEntries(w http.ResponseWriter, r *http.Request)
	CreateScaleEntry(w http.ResponseWriter, r *http.Request)
}

type configHandlerImpl struct {
	taxRepo       tax.Repository
	payConfigRepo payconfig.Repository
	scaleRepo     salaryscale.Repository
}

func NewConfigHandler(taxRepo tax.Repository, payConfigRepo payconfig.Repository, scaleRepo salaryscale.Repository) ConfigHandler {
	return &configHandlerImpl{taxRepo: taxRepo, payConfigRepo: payConfigRepo, scaleRepo: scaleRepo}
}

func asOfFrom(r *http.Request) (time.Time, bool) {
	s := r.URL.Query().Get("as_of")
	if s == "" {
		return time.Now(), true
	}
	asOf, err := time.Parse("2006-01-02", s)
	return asOf, err == nil
}

func (h *configHandlerImpl) GetTaxBrackets(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfFrom(r)
	if !ok {
		response.BadRequest(w, "as_of must be YYYY-MM-DD", nil)
		return
	}

	brackets, err := h.taxRepo.BracketsAsOf(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, brackets)
}

func (h *configHandlerImpl) GetRates(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfFrom(r)
	if !ok {
		response.BadRequest(w, "as_of must be YYYY-MM-DD", nil)
		return
	}

	rates, err := h.payConfigRepo.RatesAsOf(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rates)
}

func (h *configHandlerImpl) ListScaleEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scaleRepo.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}

func (h *configHandlerImpl) CreateScaleEntry(w http.ResponseWriter, r *http.Request) {
	var req salaryscale.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.scaleRepo.Create(r.Context(), req.ToEntity())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary scale entry created", entry)
}
