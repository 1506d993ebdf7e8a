/*
handlers.go - HTTP API handlers for the award engine

PURPOSE:
  Exposes award configuration and the pay calculation over REST. Handles
  HTTP request/response, JSON serialization, and delegates to engine
  packages. Every engine call gets its award and tables passed explicitly.

ENDPOINTS:
  Awards:
    GET    /api/awards               List awards
    POST   /api/awards               Create award (409 if the id exists)
    GET    /api/awards/{id}          Get award
    PUT    /api/awards/{id}          Create or replace award
    DELETE /api/awards/{id}          Delete award

  Tables:
    GET    /api/tables               List financial years
    GET    /api/tables/{year}        Tax and repayment tables for a year
    PUT    /api/tables/{year}        Replace tables for a year

  Calculation:
    POST   /api/hours/classify       Classify and aggregate shifts
    POST   /api/pay/calculate        Price manual hours or shifts

  Defaults:
    GET    /api/defaults/awards      Preset awards (not stored)
    POST   /api/defaults/load        Store presets and default tables if empty

REQUEST FLOW:
  1. Decode JSON body
  2. Validate DTO (go-playground/validator)
  3. Load award and tables from the store
  4. Call engine (shift.Calculate, pay.Calculate)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, invalid award config
  - 404: Award or table year not found
  - 409: Award id already exists on create
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/award-engine/award"
	"github.com/warp/award-engine/factory"
	"github.com/warp/award-engine/generic"
	"github.com/warp/award-engine/pay"
	"github.com/warp/award-engine/shift"
	"github.com/warp/award-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options tune request defaults.
type Options struct {
	// DefaultYear is used when a pay request names no year.
	DefaultYear string
	// Location interprets shift timestamps that carry no offset.
	Location *time.Location
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Logger *zap.Logger

	validate    *validator.Validate
	defaultYear string
	loc         *time.Location
}

// NewHandler creates a handler. A nil logger discards logs.
func NewHandler(s store.Store, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultYear == "" {
		opts.DefaultYear = pay.DefaultYear
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Handler{
		Store:       s,
		Logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		defaultYear: opts.DefaultYear,
		loc:         opts.Location,
	}
}

// =============================================================================
// AWARD HANDLERS
// =============================================================================

// ListAwards returns all awards.
func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListAwards(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list awards", err)
		return
	}
	writeJSON(w, http.StatusOK, toAwardDocs(policies))
}

// GetAward returns a single award.
func (h *Handler) GetAward(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetAward(r.Context(), award.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get award", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromPolicy(p))
}

// CreateAward stores a new award.
func (h *Handler) CreateAward(w http.ResponseWriter, r *http.Request) {
	var doc factory.AwardJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := factory.ToPolicy(doc)
	if err != nil {
		h.fail(w, r, "Invalid award configuration", err)
		return
	}

	if _, err := h.Store.GetAward(r.Context(), p.ID); err == nil {
		writeError(w, http.StatusConflict, "Award already exists", fmt.Errorf("award %s", p.ID))
		return
	} else if !generic.IsNotFound(err) {
		h.fail(w, r, "Failed to create award", err)
		return
	}

	if err := h.Store.SaveAward(r.Context(), p); err != nil {
		h.fail(w, r, "Failed to create award", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.FromPolicy(p))
}

// UpdateAward creates or replaces the award at {id}. A body id, when
// present, must match.
func (h *Handler) UpdateAward(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var doc factory.AwardJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if doc.ID == "" {
		doc.ID = factory.AwardID(id)
	}
	if string(doc.ID) != id {
		writeError(w, http.StatusBadRequest, "Award id does not match path", fmt.Errorf("body %q, path %q", doc.ID, id))
		return
	}

	p, err := factory.ToPolicy(doc)
	if err != nil {
		h.fail(w, r, "Invalid award configuration", err)
		return
	}
	if err := h.Store.SaveAward(r.Context(), p); err != nil {
		h.fail(w, r, "Failed to save award", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromPolicy(p))
}

// DeleteAward removes an award.
func (h *Handler) DeleteAward(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAward(r.Context(), award.ID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, r, "Failed to delete award", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toAwardDocs(policies []award.Policy) []factory.AwardJSON {
	docs := make([]factory.AwardJSON, 0, len(policies))
	for _, p := range policies {
		docs = append(docs, factory.FromPolicy(p))
	}
	return docs
}

// =============================================================================
// TABLE HANDLERS
// =============================================================================

// ListTables returns every stored year, ordered.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	sets, err := h.Store.ListTableSets(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list tables", err)
		return
	}
	docs := make([]factory.TableSetJSON, 0, len(sets))
	for _, year := range sets.Years() {
		docs = append(docs, factory.FromTableSet(sets[year]))
	}
	writeJSON(w, http.StatusOK, docs)
}

// GetTables returns the tables for {year}.
func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	ts, err := h.Store.GetTableSet(r.Context(), chi.URLParam(r, "year"))
	if err != nil {
		h.fail(w, r, "Failed to get tables", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromTableSet(ts))
}

// PutTables replaces the tables for {year}.
func (h *Handler) PutTables(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")

	var doc factory.TableSetJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if doc.Year == "" {
		doc.Year = year
	}
	if doc.Year != year {
		writeError(w, http.StatusBadRequest, "Year does not match path", fmt.Errorf("body %q, path %q", doc.Year, year))
		return
	}

	ts, err := factory.ToTableSet(doc)
	if err != nil {
		h.fail(w, r, "Invalid tables", err)
		return
	}
	if err := h.Store.SaveTableSet(r.Context(), ts); err != nil {
		h.fail(w, r, "Failed to save tables", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromTableSet(ts))
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// ClassifyHours classifies a shift list and aggregates it.
func (h *Handler) ClassifyHours(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	rules, ok := h.loadRules(w, r, req.AwardID)
	if !ok {
		return
	}
	res, ok := h.schedule(w, r, req.Shifts, req.EmploymentType, rules)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toClassifyResponse(req.AwardID, res))
}

// CalculatePay prices a period. With shifts, hours and meal counts come
// from the aggregated schedule; otherwise the manual hours are used.
func (h *Handler) CalculatePay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if !h.decode(w, r, &req) {
		return
	}

	rules, ok := h.loadRules(w, r, req.AwardID)
	if !ok {
		return
	}

	year := req.Year
	if year == "" {
		year = h.defaultYear
	}
	tables, err := h.Store.GetTableSet(r.Context(), year)
	if err != nil {
		h.fail(w, r, "Failed to load tables", err)
		return
	}

	in := pay.Input{
		Rules:       &rules,
		BaseRate:    decimal.NewFromFloat(req.BaseRate),
		Period:      pay.Period(req.PayPeriod),
		Allowances:  req.Allowances.allowances(),
		HasLoanDebt: req.HasLoanDebt,
		Tables:      tables,
	}

	var schedule *ClassifyResponse
	if req.Hours != nil {
		in.Hours = req.Hours.buckets()
	} else {
		res, ok := h.schedule(w, r, req.Shifts, req.EmploymentType, rules)
		if !ok {
			return
		}
		in.Hours = res.Totals
		in.Allowances = in.Allowances.WithMeals(res)
		cr := toClassifyResponse(req.AwardID, res)
		schedule = &cr
	}

	res, err := pay.Calculate(in)
	if err != nil {
		h.fail(w, r, "Failed to calculate pay", err)
		return
	}
	period, _ := pay.ParsePeriod(req.PayPeriod)

	resp := toPayResponse(req.AwardID, year, period, res)
	resp.Schedule = schedule
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) loadRules(w http.ResponseWriter, r *http.Request, id string) (award.Rules, bool) {
	p, err := h.Store.GetAward(r.Context(), award.ID(id))
	if err != nil {
		h.fail(w, r, "Failed to load award", err)
		return award.Rules{}, false
	}
	rules, err := p.Rules()
	if err != nil {
		h.fail(w, r, "Stored award is invalid", err)
		return award.Rules{}, false
	}
	return rules, true
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request, shifts []factory.ShiftJSON, employment string, rules award.Rules) (shift.Result, bool) {
	et, err := shift.ParseEmploymentType(employment)
	if err != nil {
		h.fail(w, r, "Invalid employment type", err)
		return shift.Result{}, false
	}
	intervals, err := factory.ToIntervals(shifts, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shifts", err)
		return shift.Result{}, false
	}
	res, err := shift.Calculate(intervals, rules, et)
	if err != nil {
		h.fail(w, r, "Invalid shifts", err)
		return shift.Result{}, false
	}
	return res, true
}

// =============================================================================
// DEFAULTS HANDLERS
// =============================================================================

// ListDefaultAwards returns the preset awards without storing them.
func (h *Handler) ListDefaultAwards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAwardDocs(award.Presets()))
}

// LoadDefaults stores the presets and default tables into an empty store.
func (h *Handler) LoadDefaults(w http.ResponseWriter, r *http.Request) {
	res, err := store.Seed(r.Context(), h.Store)
	if err != nil {
		h.fail(w, r, "Failed to load defaults", err)
		return
	}
	h.Logger.Info("defaults loaded", zap.Int("awards", res.Awards), zap.Int("table_sets", res.TableSets))
	writeJSON(w, http.StatusOK, SeedDTO{Awards: res.Awards, TableSets: res.TableSets})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates a request body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "Validation failed", verrs[0])
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// fail maps err onto 404, 400 or 500. Only 500s are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
