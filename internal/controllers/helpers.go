package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/middleware"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// formatValidationErrors is a helper to convert validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required", "required_without":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// decodeAndValidate reads a JSON body into req. It writes the error
// response itself and reports whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := v.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error",
				formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

func sessionFrom(r *http.Request) (models.Session, error) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return models.Session{}, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Missing session in context",
		}
	}
	return *s, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    fmt.Sprintf("Invalid %s format", name),
			Err:        err,
		}
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    fmt.Sprintf("Invalid %s format", name),
			Err:        err,
		}
	}
	return &id, nil
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// respondDomainError translates service errors into HTTP answers.
func respondDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr *lifecycle.ValidationError
		transitionErr *lifecycle.InvalidTransitionError
		alreadyPaid   *lifecycle.AlreadyPaidError
		pendingErr    *lifecycle.PendingApprovalError
		authErr       *lifecycle.AuthenticationError
		notFoundErr   *lifecycle.NotFoundError
		forbiddenErr  *lifecycle.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, validationErr.Error(),
			[]dtos.ValidationErrorDetail{{Field: validationErr.Field, Message: validationErr.Message, Code: utils.ErrCodeValidation}})
	case errors.As(err, &transitionErr):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidTransition, transitionErr.Error(), nil)
	case errors.As(err, &alreadyPaid):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeAlreadyPaid, alreadyPaid.Error(), nil)
	case errors.As(err, &pendingErr):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodePendingApproval, pendingErr.Error(), nil)
	case errors.As(err, &authErr):
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, authErr.Error(), nil)
	case errors.As(err, &notFoundErr):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, notFoundErr.Error(), nil)
	case errors.As(err, &forbiddenErr):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, forbiddenErr.Error(), nil)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"The record was modified concurrently, please retry", nil, err)
	default:
		utils.HandleAppError(w, err)
	}
}
