package controllers

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type LeadController struct {
	leadService services.LeadService
	validate    *validator.Validate
}

func NewLeadController(leadService services.LeadService) *LeadController {
	return &LeadController{
		leadService: leadService,
		validate:    validator.New(),
	}
}

// GET /api/v1/leads?status=&associate_id=&search=&page=&page_size=
func (c *LeadController) ListLeadsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	f := models.LeadFilter{
		Search:   r.URL.Query().Get("search"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	if f.AssociateID, err = queryUUID(r, "associate_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := lifecycle.ParseLeadStatus(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		f.Status = &st
	}

	leads, total, err := c.leadService.ListLeads(r.Context(), s, f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPage(leads, total, f.Page, f.PageSize))
}

// POST /api/v1/leads
func (c *LeadController) CreateLeadHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateLeadHandler")

	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger = logger.WithField("userID", s.UserID)

	var req dtos.CreateLeadRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	lead, err := c.leadService.CreateLead(r.Context(), s, req)
	if err != nil {
		logger.WithError(err).Warn("Create lead failed")
		respondDomainError(w, err)
		return
	}
	logger.WithField("leadID", lead.ID).Info("Lead created")
	utils.RespondWithJSON(w, http.StatusCreated, lead)
}

// GET /api/v1/leads/{id}
func (c *LeadController) GetLeadHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	lead, err := c.leadService.GetLead(r.Context(), s, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lead)
}

// PATCH /api/v1/leads/{id}
func (c *LeadController) UpdateLeadHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateLeadRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	lead, err := c.leadService.UpdateLead(r.Context(), s, id, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lead)
}

// PATCH /api/v1/leads/{id}/status
func (c *LeadController) UpdateLeadStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateLeadStatusHandler")

	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateLeadStatusRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	lead, err := c.leadService.UpdateLeadStatus(r.Context(), s, id, req.Status)
	if err != nil {
		logger.WithError(err).WithField("leadID", id).Info("Lead status change rejected")
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lead)
}

// DELETE /api/v1/leads/{id}
func (c *LeadController) DeleteLeadHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.leadService.DeleteLead(r.Context(), s, id); err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Lead deleted"})
}
