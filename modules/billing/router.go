// Package billing exposes the plan catalog, the user's subscription and
// usage, and plan changes over HTTP.
package billing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/svc/entitlement"
)

// Router mounts the billing endpoints. Callers must wrap it with
// modules.RequireUser.
func Router(eval *entitlement.Evaluator, plans entitlement.PlanStore) chi.Router {
	h := &handler{eval: eval, plans: plans}

	r := chi.NewRouter()
	r.Get("/plans", h.listPlans)
	r.Get("/subscription", h.subscription)
	r.Get("/usage", h.usage)
	r.Post("/plan", h.changePlan)
	return r
}

type handler struct {
	eval  *entitlement.Evaluator
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

type subscriptionResponse struct {
	Plan         entitlement.Plan          `json:"plan"`
	Subscription *entitlement.Subscription `json:"subscription"`
}

func (h *handler) subscription(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	plan, sub, err := h.eval.CurrentPlan(r.Context(), u.ID)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, subscriptionResponse{Plan: plan, Subscription: sub})
}

func (h *handler) usage(w http.ResponseWriter, r *http.Request) {
	u := modules.UserFrom(r.Context())
	usage, err := h.eval.Usage(r.Context(), u.ID)
	if err != nil {
		modules.RespondError(w, err)
		return
	}

	percentages := make(map[entitlement.Resource]int, len(usage))
	for res := range usage {
		percentages[res] = h.eval.UsagePercentage(r.Context(), u.ID, res)
	}
	core.JSONWithMeta(w, http.StatusOK, usage, map[string]any{
		"percentages": percentages,
	})
}

type changePlanRequest struct {
	PlanID string `json:"plan_id"`
}

// changePlan switches the user's plan. Downgrades are refused while usage
// exceeds the target plan's caps.
func (h *handler) changePlan(w http.ResponseWriter, r *http.Request) {
	var req changePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		core.JSONError(w, core.ErrBadRequest)
		return
	}

	u := modules.UserFrom(r.Context())
	if err := h.eval.CanDowngrade(r.Context(), u.ID, req.PlanID); err != nil {
		modules.RespondError(w, err)
		return
	}
	if err := h.eval.AssignPlan(r.Context(), u.ID, req.PlanID); err != nil {
		modules.RespondError(w, err)
		return
	}

	plan, sub, err := h.eval.CurrentPlan(r.Context(), u.ID)
	if err != nil {
		modules.RespondError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, subscriptionResponse{Plan: plan, Subscription: sub})
}
