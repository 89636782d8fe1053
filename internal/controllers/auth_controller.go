package controllers

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/gate"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/middleware"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
)

type AuthController struct {
	authService services.AuthService
	validate    *validator.Validate
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
		validate:    validator.New(),
	}
}

func newLoginResponse(res *services.LoginResult) dtos.LoginResponse {
	return dtos.LoginResponse{
		AccessToken:            res.Token,
		ExpiresAt:              res.Session.ExpiresAt,
		User:                   dtos.NewUserFromModel(res.User),
		RequiresPasswordChange: res.Session.RequiresPasswordChange,
		RedirectTo:             gate.DecidePath(&res.Session, gate.LoginPath).RedirectTo,
	}
}

// POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	res, err := c.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, newLoginResponse(res))
}

// POST /api/v1/auth/register
func (c *AuthController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	u, err := c.authService.Register(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewUserFromModel(u))
}

// POST /api/v1/auth/logout
func (c *AuthController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.authService.Logout(r.Context(), s); err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Logged out"})
}

// POST /api/v1/auth/set-new-password
func (c *AuthController) SetNewPasswordHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.SetNewPasswordRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	res, err := c.authService.SetNewPassword(r.Context(), s, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, newLoginResponse(res))
}

// GET /api/v1/auth/me
func (c *AuthController) MeHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	u, err := c.authService.Me(r.Context(), s)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewUserFromModel(u))
}

// GET /api/v1/gate?path=/admin/leads
func (c *AuthController) GateHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing path query parameter", nil)
		return
	}

	s, _ := middleware.SessionFromContext(r.Context())
	route := gate.Lookup(path)
	d := gate.Decide(s, route)
	utils.RespondWithJSON(w, http.StatusOK, dtos.GateResponse{Path: route.Path, Render: d.Render, RedirectTo: d.RedirectTo})
}
