// Package habits exposes habit tracking over HTTP.
package habits

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/habit"
)

// Router mounts the habit endpoints. Callers must wrap it with
// modules.RequireUser.
func Router(svc *habit.Service) chi.Router {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{habitID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Post("/archive", h.archive)
		r.Post("/complete", h.complete)
		r.Get("/streaks", h.streaks)
	})
	return r
}

type handler struct {
	svc *habit.Service
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	list, err := h.svc.List(r.Context(), u.ID)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, list)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u := modules.UserFrom(r.Context())
	created, err := h.svc.Create(r.Context(), u.ID, habit.CreateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, created)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	found, err := h.svc.Get(r.Context(), u.ID, id)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, found)
}

func (h *handler) archive(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	if err := h.svc.Archive(r.Context(), u.ID, id); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	Day string `json:"day"` // YYYY-MM-DD, empty means today
}

func (h *handler) complete(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	var req completeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
	}

	var onDay time.Time
	if req.Day != "" {
		onDay, err = time.Parse("2006-01-02", req.Day)
		if err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
	}

	if err := h.svc.Complete(r.Context(), u.ID, id, onDay); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) streaks(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		core.JSONError(w, core.ErrNotFound)
		return
	}

	info, err := h.svc.Streaks(r.Context(), u.ID, id)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, info)
}
