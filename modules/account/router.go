// Package account exposes registration and account management over HTTP.
package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/user"
)

// Router mounts the account endpoints. Registration is public; everything
// else requires authentication.
func Router(svc *user.Service) chi.Router {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Post("/register", h.register)

	r.Group(func(r chi.Router) {
		r.Use(modules.RequireUser(svc))
		r.Get("/me", h.me)
		r.Post("/password", h.changePassword)
	})
	return r
}

type handler struct {
	svc *user.Service
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, u)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, http.StatusOK, modules.UserFrom(r.Context()))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u := modules.UserFrom(r.Context())
	if err := h.svc.ChangePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		modules.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
