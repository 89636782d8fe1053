package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoginResult is what a successful sign-in hands back to the client.
type LoginResult struct {
	Token   string
	Session models.Session
	User    *models.User
}

type AuthService interface {
	Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, s models.Session) error
	SetNewPassword(ctx context.Context, s models.Session, req dtos.SetNewPasswordRequest) (*LoginResult, error)
	Me(ctx context.Context, s models.Session) (*models.User, error)
	// Authenticate resolves a bearer token to a live session.
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type authService struct {
	store     repositories.Store
	revoked   repositories.RevocationStore
	jwt       JWTService
	publisher NotificationPublisher
}

func NewAuthService(
	store repositories.Store,
	revoked repositories.RevocationStore,
	jwt JWTService,
	publisher NotificationPublisher,
) AuthService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &authService{store: store, revoked: revoked, jwt: jwt, publisher: publisher}
}

func (s *authService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	t := now()
	u := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        utils.NormalizeEmail(req.Email),
		Role:         models.RoleAssociate,
		IsActive:     false,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: hash,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if req.BankDetails != nil && !req.BankDetails.IsZero() {
		u.BankDetails = req.BankDetails
	}

	var box outbox
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		code, err := tx.Users().NextUniqueID(ctx, models.RoleAssociate)
		if err != nil {
			return err
		}
		u.UniqueID = code
		if err := tx.Users().Create(ctx, u); err != nil {
			return conflictAsValidation(err, "email", "email is already registered", utils.ErrEmailExists)
		}
		msg := fmt.Sprintf("%s (%s) registered and is awaiting approval", u.Name, u.UniqueID)
		return box.toAdmins(ctx, tx, models.NotificationNewRegistration, "New associate registration", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)

	utils.Logger.WithFields(logrus.Fields{"userID": u.ID, "uniqueID": u.UniqueID}).Info("Associate registered, pending approval")
	return u, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	var u *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		if strings.Contains(identifier, "@") {
			u, err = tx.Users().GetByEmail(ctx, identifier)
		} else {
			u, err = tx.Users().GetByUniqueID(ctx, identifier)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	passwordOK := u != nil && utils.CheckPasswordHash(password, u.PasswordHash)
	if err := lifecycle.CheckLogin(u, passwordOK); err != nil {
		utils.Logger.WithField("identifier", identifier).WithError(err).Info("Login rejected")
		return nil, err
	}

	token, session, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Session: session, User: u}, nil
}

func (s *authService) Logout(ctx context.Context, session models.Session) error {
	if session.TokenID == "" {
		return nil
	}
	return s.revoked.MarkRevoked(ctx, session.TokenID, session.ExpiresAt)
}

func (s *authService) SetNewPassword(ctx context.Context, session models.Session, req dtos.SetNewPasswordRequest) (*LoginResult, error) {
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}

	var u *models.User
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = updateUser(ctx, tx, session.UserID, func(u *models.User) error {
			if !utils.CheckPasswordHash(req.CurrentPassword, u.PasswordHash) {
				return &lifecycle.AuthenticationError{}
			}
			u.PasswordHash = hash
			u.RequiresPasswordChange = false
			u.UpdatedAt = now()
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	// The old token still says "must change password"; retire it.
	logBestEffort(s.Logout(ctx, session), "revoking pre-change token", logrus.Fields{"userID": u.ID})

	token, newSession, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Session: newSession, User: u}, nil
}

func (s *authService) Me(ctx context.Context, session models.Session) (*models.User, error) {
	var u *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = tx.Users().GetByID(ctx, session.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, lifecycle.NotFound("user", session.UserID)
	}
	return u, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, utils.ErrTokenRevoked
	}

	u, err := s.Me(ctx, *session)
	if err != nil {
		return nil, err
	}
	// Deactivation takes effect immediately, not at token expiry.
	if !u.IsActive {
		return nil, utils.ErrTokenRevoked
	}
	session.RequiresPasswordChange = u.RequiresPasswordChange
	return session, nil
}
