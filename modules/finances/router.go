// Package finances exposes transaction and budget tracking over HTTP.
package finances

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/finance"
)

// Router mounts the finance endpoints. Callers must wrap it with
// modules.RequireUser.
func Router(svc *finance.Service) chi.Router {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/transactions", h.listTransactions)
	r.Post("/transactions", h.record)
	r.Delete("/transactions/{txID}", h.deleteTransaction)
	r.Post("/budgets", h.setBudget)
	r.Delete("/budgets/{budgetID}", h.deleteBudget)
	r.Get("/summary", h.summary)
	return r
}

type handler struct {
	svc *finance.Service
}

// monthParam parses the optional ?month=YYYY-MM query, defaulting to now.
func monthParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return time.Now().UTC(), true
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, false
	}
	return month, true
}

func (h *handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u := modules.UserFrom(r.Context())
	txs, err := h.svc.Transactions(r.Context(), u.ID, month)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, txs)
}

type recordRequest struct {
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Note        string `json:"note"`
	OccurredAt  string `json:"occurred_at"` // RFC 3339, empty means now
}

func (h *handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		var err error
		occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
	}

	u := modules.UserFrom(r.Context())
	tx, err := h.svc.Record(r.Context(), u.ID, finance.RecordParams{
		Kind:        finance.Kind(req.Kind),
		AmountCents: req.AmountCents,
		Category:    req.Category,
		Note:        req.Note,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, tx)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	u := modules.UserFrom(r.Context())
	if err := h.svc.DeleteTransaction(r.Context(), u.ID, id); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setBudgetRequest struct {
	Category   string `json:"category"`
	Month      string `json:"month"` // YYYY-MM, empty means current month
	LimitCents int64  `json:"limit_cents"`
}

func (h *handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	var month time.Time
	if req.Month != "" {
		var err error
		month, err = time.Parse("2006-01", req.Month)
		if err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
	}

	u := modules.UserFrom(r.Context())
	b, err := h.svc.SetBudget(r.Context(), u.ID, finance.SetBudgetParams{
		Category:   req.Category,
		Month:      month,
		LimitCents: req.LimitCents,
	})
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, b)
}

func (h *handler) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "budgetID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	u := modules.UserFrom(r.Context())
	if err := h.svc.DeleteBudget(r.Context(), u.ID, id); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u := modules.UserFrom(r.Context())
	summary, err := h.svc.MonthlySummary(r.Context(), u.ID, month)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, summary)
}
