package controllers

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type PackageController struct {
	packageService services.PackageService
	validate       *validator.Validate
}

func NewPackageController(packageService services.PackageService) *PackageController {
	return &PackageController{
		packageService: packageService,
		validate:       validator.New(),
	}
}

// GET /api/v1/packages?status=&associate_id=&page=&page_size=
func (c *PackageController) ListPackagesHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	f := models.PackageFilter{Page: queryInt(r, "page"), PageSize: queryInt(r, "page_size")}
	if f.AssociateID, err = queryUUID(r, "associate_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParsePackageStatus(raw)
		if !ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Unknown package status", nil)
			return
		}
		f.Status = &st
	}

	pkgs, total, err := c.packageService.ListPackages(r.Context(), s, f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPage(pkgs, total, f.Page, f.PageSize))
}

// POST /api/v1/packages
func (c *PackageController) CreatePackageHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreatePackageHandler")

	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreatePackageRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	pkg, err := c.packageService.CreatePackage(r.Context(), s, req)
	if err != nil {
		logger.WithError(err).WithField("leadID", req.LeadID).Warn("Create package failed")
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, pkg)
}

// GET /api/v1/packages/{id}
func (c *PackageController) GetPackageHandler(w http.ResponseWriter, r *http.Request) {
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

	pkg, err := c.packageService.GetPackage(r.Context(), s, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pkg)
}

// POST /api/v1/packages/{id}/approve
func (c *PackageController) ApprovePackageHandler(w http.ResponseWriter, r *http.Request) {
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
	var req dtos.ApprovePackageRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, c.validate, &req) {
			return
		}
	}

	pkg, err := c.packageService.ApprovePackage(r.Context(), s, id, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pkg)
}

// PATCH /api/v1/packages/{id}/status
func (c *PackageController) UpdatePackageStatusHandler(w http.ResponseWriter, r *http.Request) {
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
	var req dtos.UpdatePackageStatusRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	pkg, err := c.packageService.UpdatePackageStatus(r.Context(), s, id, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pkg)
}
