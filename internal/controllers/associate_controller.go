package controllers

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type AssociateController struct {
	associateService services.AssociateService
	validate         *validator.Validate
}

func NewAssociateController(associateService services.AssociateService) *AssociateController {
	return &AssociateController{
		associateService: associateService,
		validate:         validator.New(),
	}
}

// GET /api/v1/associates?status=pending&search=&page=&page_size=
func (c *AssociateController) ListAssociatesHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	q := r.URL.Query()
	f := models.UserFilter{
		Search:   q.Get("search"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	switch st := models.AccountState(q.Get("status")); st {
	case "":
	case models.AccountStatePending, models.AccountStateActive, models.AccountStateInactive:
		f.State = &st
	default:
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"status must be one of pending, active, inactive", nil)
		return
	}

	users, total, err := c.associateService.ListAssociates(r.Context(), s, f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPage(dtos.NewUsersFromModels(users), total, f.Page, f.PageSize))
}

// POST /api/v1/associates
func (c *AssociateController) CreateAssociateHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateAssociateHandler")

	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateAssociateRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	u, tempPassword, err := c.associateService.CreateAssociate(r.Context(), s, req)
	if err != nil {
		logger.WithError(err).Warn("Create associate failed")
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreateAssociateResponse{
		User:              dtos.NewUserFromModel(u),
		TemporaryPassword: tempPassword,
	})
}

// GET /api/v1/associates/{id}
func (c *AssociateController) GetAssociateHandler(w http.ResponseWriter, r *http.Request) {
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

	u, err := c.associateService.GetAssociate(r.Context(), s, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}

// POST /api/v1/associates/{id}/approve
func (c *AssociateController) ApproveAssociateHandler(w http.ResponseWriter, r *http.Request) {
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

	u, err := c.associateService.ApproveAssociate(r.Context(), s, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}

// PATCH /api/v1/associates/{id}/status
func (c *AssociateController) ToggleAssociateHandler(w http.ResponseWriter, r *http.Request) {
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
	var req dtos.ToggleAssociateRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	u, err := c.associateService.ToggleStatus(r.Context(), s, id, *req.IsActive)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}

// PATCH /api/v1/profile
func (c *AssociateController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateProfileRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	u, err := c.associateService.UpdateProfile(r.Context(), s, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}

// POST /api/v1/profile/deactivate
func (c *AssociateController) DeactivateSelfHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	u, err := c.associateService.DeactivateSelf(r.Context(), s)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}
