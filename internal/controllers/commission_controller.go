package controllers

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CommissionController struct {
	commissionService services.CommissionService
	policyService     services.PolicyService
	validate          *validator.Validate
}

func NewCommissionController(commissionService services.CommissionService, policyService services.PolicyService) *CommissionController {
	return &CommissionController{
		commissionService: commissionService,
		policyService:     policyService,
		validate:          validator.New(),
	}
}

// GET /api/v1/commissions?status=&associate_id=&page=&page_size=
func (c *CommissionController) ListCommissionsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	f := models.CommissionFilter{Page: queryInt(r, "page"), PageSize: queryInt(r, "page_size")}
	if f.AssociateID, err = queryUUID(r, "associate_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParseCommissionStatus(raw)
		if !ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Unknown commission status", nil)
			return
		}
		f.Status = &st
	}

	out, total, err := c.commissionService.ListCommissions(r.Context(), s, f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPage(out, total, f.Page, f.PageSize))
}

// POST /api/v1/commissions/payments
func (c *CommissionController) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "RecordPaymentHandler")

	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.RecordPaymentRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	commission, err := c.commissionService.RecordPayment(r.Context(), s, req)
	if err != nil {
		logger.WithError(err).Info("Payment not recorded")
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, commission)
}

// GET /api/v1/commissions/summary?associate_id=
func (c *CommissionController) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	associateID, err := queryUUID(r, "associate_id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	sum, err := c.commissionService.Summary(r.Context(), s, associateID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sum)
}

// GET /api/v1/policies
func (c *CommissionController) ListPoliciesHandler(w http.ResponseWriter, r *http.Request) {
	policies, err := c.policyService.ListPolicies(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if policies == nil {
		policies = []*models.CommissionPolicy{}
	}
	utils.RespondWithJSON(w, http.StatusOK, policies)
}

// PUT /api/v1/policies
func (c *CommissionController) UpsertPolicyHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpsertPolicyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	policy, err := c.policyService.UpsertPolicy(r.Context(), s, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, policy)
}

// PATCH /api/v1/policies/{type}
func (c *CommissionController) TogglePolicyHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.TogglePolicyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	policy, err := c.policyService.SetPolicyActive(r.Context(), s, mux.Vars(r)["type"], *req.IsActive)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, policy)
}
