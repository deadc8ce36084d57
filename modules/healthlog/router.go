// Package healthlog exposes wellness check-ins, insights and drug label
// lookup over HTTP.
package healthlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/health"
)

// Router mounts the health endpoints. Callers must wrap it with
// modules.RequireUser.
func Router(svc *health.Service) chi.Router {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/logs", h.history)
	r.Post("/logs", h.log)
	r.Get("/logs/{day}", h.logForDay)
	r.Delete("/logs/{day}", h.deleteLog)
	r.Get("/insights", h.insights)
	r.Get("/drugs/{brandName}", h.drugLabel)
	return r
}

type handler struct {
	svc *health.Service
}

type logRequest struct {
	Day          string  `json:"day"` // YYYY-MM-DD, empty means today
	Mood         int     `json:"mood"`
	SleepHours   float64 `json:"sleep_hours"`
	WaterGlasses int     `json:"water_glasses"`
	Note         string  `json:"note"`
}

func (h *handler) log(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	var onDay time.Time
	if req.Day != "" {
		var err error
		onDay, err = time.Parse("2006-01-02", req.Day)
		if err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
	}

	u := modules.UserFrom(r.Context())
	l, err := h.svc.Log(r.Context(), u.ID, health.LogParams{
		Day:          onDay,
		Mood:         req.Mood,
		SleepHours:   req.SleepHours,
		WaterGlasses: req.WaterGlasses,
		Note:         req.Note,
	})
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, l)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
		days = parsed
	}

	u := modules.UserFrom(r.Context())
	logs, err := h.svc.History(r.Context(), u.ID, days)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, logs)
}

func (h *handler) logForDay(w http.ResponseWriter, r *http.Request) {
	d, err := time.Parse("2006-01-02", chi.URLParam(r, "day"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	u := modules.UserFrom(r.Context())
	l, err := h.svc.LogForDay(r.Context(), u.ID, d)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, l)
}

func (h *handler) deleteLog(w http.ResponseWriter, r *http.Request) {
	d, err := time.Parse("2006-01-02", chi.URLParam(r, "day"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	u := modules.UserFrom(r.Context())
	if err := h.svc.DeleteLog(r.Context(), u.ID, d); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) insights(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	insights, err := h.svc.Insights(r.Context(), u.ID)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, insights)
}

func (h *handler) drugLabel(w http.ResponseWriter, r *http.Request) {
	label, err := h.svc.LookupDrug(r.Context(), chi.URLParam(r, "brandName"))
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, label)
}
