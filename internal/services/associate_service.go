package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AssociateService interface {
	ApproveAssociate(ctx context.Context, s models.Session, userID uuid.UUID) (*models.User, error)
	ToggleStatus(ctx context.Context, s models.Session, userID uuid.UUID, active bool) (*models.User, error)
	// CreateAssociate creates an active associate and returns the one-time
	// temporary password.
	CreateAssociate(ctx context.Context, s models.Session, req dtos.CreateAssociateRequest) (*models.User, string, error)
	ListAssociates(ctx context.Context, s models.Session, f models.UserFilter) ([]*models.User, int, error)
	GetAssociate(ctx context.Context, s models.Session, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, s models.Session, req dtos.UpdateProfileRequest) (*models.User, error)
	DeactivateSelf(ctx context.Context, s models.Session) (*models.User, error)
}

type associateService struct {
	store     repositories.Store
	messenger Messenger
	publisher NotificationPublisher
	appURL    string
}

func NewAssociateService(store repositories.Store, messenger Messenger, publisher NotificationPublisher, appURL string) AssociateService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &associateService{store: store, messenger: messenger, publisher: publisher, appURL: appURL}
}

func loadAssociate(ctx context.Context, tx repositories.Tx, id uuid.UUID) (*models.User, error) {
	u, err := tx.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != models.RoleAssociate {
		return nil, lifecycle.NotFound("associate", id)
	}
	return u, nil
}

func (s *associateService) ApproveAssociate(ctx context.Context, session models.Session, userID uuid.UUID) (*models.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var u *models.User
	var firstTime bool
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = loadAssociate(ctx, tx, userID)
		if err != nil {
			return err
		}
		wasActive := u.IsActive
		firstTime, err = lifecycle.ApproveAssociate(u, now())
		if err != nil {
			return err
		}
		if wasActive && !firstTime {
			return nil
		}
		if err := repositories.SaveIfVersion(ctx, u, tx.Users().UpdateIfVersion); err != nil {
			return err
		}
		if !firstTime {
			return nil
		}
		msg := fmt.Sprintf("Welcome %s! Your associate ID is %s.", u.Name, u.UniqueID)
		return box.toAssociate(ctx, tx, u.ID, models.NotificationAssociateApproved, "Account approved", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)

	if firstTime {
		utils.Logger.WithFields(logrus.Fields{"userID": u.ID, "uniqueID": u.UniqueID}).Info("Associate approved")
		s.sendWelcome(ctx, u)
	}
	return u, nil
}

func (s *associateService) sendWelcome(ctx context.Context, u *models.User) {
	if s.messenger == nil {
		return
	}
	plain := fmt.Sprintf("Hi %s,\n\nYour associate account is active. Your associate ID is %s.\nSign in at %s\n", u.Name, u.UniqueID, s.appURL)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your associate account is active. Your associate ID is <strong>%s</strong>.</p><p><a href=\"%s\">Sign in</a></p>", u.Name, u.UniqueID, s.appURL)
	err := s.messenger.SendEmail(ctx, u.Name, u.Email, constants.EmailSubjectWelcome, plain, html)
	logBestEffort(err, "welcome email", logrus.Fields{"userID": u.ID})

	if u.Phone != "" {
		body := fmt.Sprintf("%s: your associate account %s is active.", constants.OrganizationName, u.UniqueID)
		logBestEffort(s.messenger.SendSMS(ctx, u.Phone, body), "welcome sms", logrus.Fields{"userID": u.ID})
	}
}

func (s *associateService) ToggleStatus(ctx context.Context, session models.Session, userID uuid.UUID, active bool) (*models.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var u *models.User
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = loadAssociate(ctx, tx, userID)
		if err != nil {
			return err
		}
		was := u.IsActive
		if err := lifecycle.ToggleAssociate(u, active, now()); err != nil {
			return err
		}
		if was == active {
			return nil
		}
		if err := repositories.SaveIfVersion(ctx, u, tx.Users().UpdateIfVersion); err != nil {
			return err
		}
		if !active {
			msg := "Your account has been deactivated. Contact an administrator for help."
			return box.toAssociate(ctx, tx, u.ID, models.NotificationAccountDeactivated, "Account deactivated", &msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	utils.Logger.WithFields(logrus.Fields{"userID": u.ID, "active": u.IsActive}).Info("Associate status toggled")
	return u, nil
}

func (s *associateService) CreateAssociate(ctx context.Context, session models.Session, req dtos.CreateAssociateRequest) (*models.User, string, error) {
	if err := requireAdmin(session); err != nil {
		return nil, "", err
	}

	tempPassword := utils.TemporaryPassword(constants.TemporaryPasswordLength)
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	t := now()
	u := &models.User{
		ID:                     uuid.New(),
		Name:                   strings.TrimSpace(req.Name),
		Email:                  utils.NormalizeEmail(req.Email),
		Role:                   models.RoleAssociate,
		IsActive:               true,
		RequiresPasswordChange: true,
		Phone:                  strings.TrimSpace(req.Phone),
		Address:                strings.TrimSpace(req.Address),
		PasswordHash:           hash,
		ApprovedAt:             &t,
		CreatedAt:              t,
		UpdatedAt:              t,
	}
	if req.BankDetails != nil && !req.BankDetails.IsZero() {
		u.BankDetails = req.BankDetails
	}

	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		code, err := tx.Users().NextUniqueID(ctx, models.RoleAssociate)
		if err != nil {
			return err
		}
		u.UniqueID = code
		return conflictAsValidation(tx.Users().Create(ctx, u), "email", "email is already registered", utils.ErrEmailExists)
	})
	if err != nil {
		return nil, "", err
	}
	utils.Logger.WithFields(logrus.Fields{"userID": u.ID, "uniqueID": u.UniqueID}).Info("Associate created by admin")
	return u, tempPassword, nil
}

func (s *associateService) ListAssociates(ctx context.Context, session models.Session, f models.UserFilter) ([]*models.User, int, error) {
	if err := requireAdmin(session); err != nil {
		return nil, 0, err
	}
	role := models.RoleAssociate
	f.Role = &role

	var out []*models.User
	var total int
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		out, total, err = tx.Users().List(ctx, f)
		return err
	})
	return out, total, err
}

func (s *associateService) GetAssociate(ctx context.Context, session models.Session, userID uuid.UUID) (*models.User, error) {
	if session.IsAssociate() && session.UserID != userID {
		return nil, lifecycle.NotFound("associate", userID)
	}
	var u *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = loadAssociate(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *associateService) UpdateProfile(ctx context.Context, session models.Session, req dtos.UpdateProfileRequest) (*models.User, error) {
	var u *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = updateUser(ctx, tx, session.UserID, func(u *models.User) error {
			if req.Name != nil {
				u.Name = strings.TrimSpace(*req.Name)
			}
			if req.Phone != nil {
				u.Phone = strings.TrimSpace(*req.Phone)
			}
			if req.Address != nil {
				u.Address = strings.TrimSpace(*req.Address)
			}
			if req.BankDetails != nil {
				if req.BankDetails.IsZero() {
					u.BankDetails = nil
				} else {
					b := *req.BankDetails
					u.BankDetails = &b
				}
			}
			u.UpdatedAt = now()
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *associateService) DeactivateSelf(ctx context.Context, session models.Session) (*models.User, error) {
	if err := requireAssociate(session); err != nil {
		return nil, err
	}

	var u *models.User
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		u, err = loadAssociate(ctx, tx, session.UserID)
		if err != nil {
			return err
		}
		if err := lifecycle.DeactivateSelf(u, now()); err != nil {
			return err
		}
		if err := repositories.SaveIfVersion(ctx, u, tx.Users().UpdateIfVersion); err != nil {
			return err
		}
		msg := fmt.Sprintf("%s (%s) deactivated their account", u.Name, u.UniqueID)
		return box.toAdmins(ctx, tx, models.NotificationAccountDeactivated, "Associate left", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	return u, nil
}
