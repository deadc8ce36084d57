// Package admin exposes plan catalog management over HTTP, guarded by a
// shared admin token.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/entitlement"
)

// Router mounts the admin endpoints. Saving a plan goes through the cached
// plan store, so catalog edits invalidate the cache and take effect
// without a restart.
func Router(plans entitlement.PlanStore, adminToken string) chi.Router {
	h := &handler{plans: plans}

	r := chi.NewRouter()
	r.Use(modules.RequireAdminToken(adminToken))
	r.Get("/plans", h.listPlans)
	r.Get("/plans/{planID}", h.getPlan)
	r.Put("/plans/{planID}", h.savePlan)
	return r
}

type handler struct {
	plans entitlement.PlanStore
}

func (h *handler) listPlans(w http.ResponseWriter, r *http.Request) {
	list, err := h.plans.ActivePlans(r.Context())
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, list)
}

func (h *handler) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.plans.Plan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, plan)
}

func (h *handler) savePlan(w http.ResponseWriter, r *http.Request) {
	var plan entitlement.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		core.JSONError(w, core.ErrBadRequest)
		return
	}
	plan.ID = chi.URLParam(r, "planID")
	if plan.Name == "" || plan.DurationDays <= 0 {
		core.JSONError(w, core.ErrUnprocessableEntity)
		return
	}

	if err := h.plans.SavePlan(r.Context(), plan); err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, plan)
}
