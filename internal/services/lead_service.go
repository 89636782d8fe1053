package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
)

type LeadService interface {
	CreateLead(ctx context.Context, s models.Session, req dtos.CreateLeadRequest) (*models.Lead, error)
	UpdateLeadStatus(ctx context.Context, s models.Session, leadID uuid.UUID, status string) (*models.Lead, error)
	UpdateLead(ctx context.Context, s models.Session, leadID uuid.UUID, req dtos.UpdateLeadRequest) (*models.Lead, error)
	GetLead(ctx context.Context, s models.Session, leadID uuid.UUID) (*models.Lead, error)
	ListLeads(ctx context.Context, s models.Session, f models.LeadFilter) ([]*models.Lead, int, error)
	DeleteLead(ctx context.Context, s models.Session, leadID uuid.UUID) error
}

type leadService struct {
	store     repositories.Store
	publisher NotificationPublisher
}

func NewLeadService(store repositories.Store, publisher NotificationPublisher) LeadService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &leadService{store: store, publisher: publisher}
}

// loadOwnedLead fetches a lead for mutation and applies the ownership rule:
// associates may only touch their own leads.
func loadOwnedLead(ctx context.Context, tx repositories.Tx, s models.Session, leadID uuid.UUID) (*models.Lead, error) {
	lead, err := tx.Leads().GetForUpdate(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, lifecycle.NotFound("lead", leadID)
	}
	if s.IsAssociate() && lead.AssociateID != s.UserID {
		return nil, &lifecycle.ForbiddenError{Message: "lead belongs to another associate"}
	}
	return lead, nil
}

// checkAssociate verifies the user exists and is an associate.
func checkAssociate(ctx context.Context, tx repositories.Tx, id uuid.UUID) (*models.User, error) {
	u, err := tx.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, lifecycle.NotFound("associate", id)
	}
	if u.Role != models.RoleAssociate {
		return nil, &lifecycle.ValidationError{Field: "associate_id", Message: "user is not an associate"}
	}
	return u, nil
}

func parsePackageTypePtr(raw *string) (*models.PackageType, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, ok := models.ParsePackageType(strings.TrimSpace(*raw))
	if !ok {
		return nil, &lifecycle.ValidationError{Field: "package_type", Message: fmt.Sprintf("unknown package type %q", *raw)}
	}
	return &t, nil
}

func (s *leadService) CreateLead(ctx context.Context, session models.Session, req dtos.CreateLeadRequest) (*models.Lead, error) {
	if err := lifecycle.ValidatePeople(req.NumberOfPeople); err != nil {
		return nil, err
	}
	pkgType, err := parsePackageTypePtr(req.PackageType)
	if err != nil {
		return nil, err
	}
	if req.ClientBudget != nil && req.ClientBudget.IsNegative() {
		return nil, &lifecycle.ValidationError{Field: "client_budget", Message: "must not be negative"}
	}

	var associateID uuid.UUID
	switch {
	case session.IsAssociate():
		if req.AssociateID != nil && *req.AssociateID != session.UserID {
			return nil, &lifecycle.ForbiddenError{Message: "associates can only create their own leads"}
		}
		associateID = session.UserID
	case req.AssociateID == nil:
		return nil, &lifecycle.ValidationError{Field: "associate_id", Message: "is required when an admin creates a lead"}
	default:
		associateID = *req.AssociateID
	}

	t := now()
	lead := &models.Lead{
		ID:               uuid.New(),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            utils.TrimPtr(req.Email),
		NumberOfPeople:   req.NumberOfPeople,
		VisitingDate:     req.VisitingDate,
		VisitingLocation: utils.TrimPtr(req.VisitingLocation),
		CurrentLocation:  utils.TrimPtr(req.CurrentLocation),
		ClientBudget:     req.ClientBudget,
		AssociateID:      associateID,
		Status:           models.LeadStatusNotAnswer,
		Remarks:          utils.TrimPtr(req.Remarks),
		PackageType:      pkgType,
		AttachmentURL:    utils.TrimPtr(req.AttachmentURL),
		CreatedAt:        t,
		UpdatedAt:        t,
	}

	var box outbox
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		assoc, err := checkAssociate(ctx, tx, associateID)
		if err != nil {
			return err
		}
		if err := tx.Leads().Create(ctx, lead); err != nil {
			return err
		}
		msg := fmt.Sprintf("%s submitted a lead for %s", assoc.UniqueID, lead.CustomerName)
		return box.toAdmins(ctx, tx, models.NotificationNewLead, "New lead", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	return lead, nil
}

func (s *leadService) UpdateLeadStatus(ctx context.Context, session models.Session, leadID uuid.UUID, status string) (*models.Lead, error) {
	target, err := lifecycle.ParseLeadStatus(status)
	if err != nil {
		return nil, err
	}

	var lead *models.Lead
	var box outbox
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		lead, err = loadOwnedLead(ctx, tx, session, leadID)
		if err != nil {
			return err
		}
		from := lead.Status
		if err := lifecycle.CheckLeadTransition(session.Role, from, target); err != nil {
			return err
		}
		if from == target {
			return nil
		}

		if session.IsAdmin() {
			pkg, err := tx.Packages().GetByLeadID(ctx, lead.ID)
			if err != nil {
				return err
			}
			if pkg != nil {
				utils.Logger.WithFields(logrus.Fields{
					"leadID": lead.ID, "packageID": pkg.ID, "packageStatus": pkg.Status,
					"from": from, "to": target,
				}).Warn("Admin override of lead status on a packaged lead")
			}
		}

		lead.Status = target
		lead.UpdatedAt = now()
		if err := repositories.SaveIfVersion(ctx, lead, tx.Leads().UpdateIfVersion); err != nil {
			return err
		}

		if target == models.LeadStatusConfirmed {
			msg := fmt.Sprintf("Lead for %s is confirmed and ready for a package", lead.CustomerName)
			return box.toAdmins(ctx, tx, models.NotificationLeadConfirmed, "Lead confirmed", &msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	return lead, nil
}

func (s *leadService) UpdateLead(ctx context.Context, session models.Session, leadID uuid.UUID, req dtos.UpdateLeadRequest) (*models.Lead, error) {
	if session.IsAssociate() && req.AssociateID != nil {
		return nil, &lifecycle.ForbiddenError{Message: "only admins can reassign leads"}
	}
	if req.NumberOfPeople != nil {
		if err := lifecycle.ValidatePeople(*req.NumberOfPeople); err != nil {
			return nil, err
		}
	}
	if req.ClientBudget != nil && req.ClientBudget.IsNegative() {
		return nil, &lifecycle.ValidationError{Field: "client_budget", Message: "must not be negative"}
	}
	pkgType, err := parsePackageTypePtr(req.PackageType)
	if err != nil {
		return nil, err
	}

	var lead *models.Lead
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		lead, err = loadOwnedLead(ctx, tx, session, leadID)
		if err != nil {
			return err
		}

		if req.AssociateID != nil && *req.AssociateID != lead.AssociateID {
			if _, err := checkAssociate(ctx, tx, *req.AssociateID); err != nil {
				return err
			}
			lead.AssociateID = *req.AssociateID
		}
		if req.CustomerName != nil {
			lead.CustomerName = strings.TrimSpace(*req.CustomerName)
		}
		if req.Phone != nil {
			lead.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Email != nil {
			lead.Email = utils.TrimPtr(req.Email)
		}
		if req.NumberOfPeople != nil {
			lead.NumberOfPeople = *req.NumberOfPeople
		}
		if req.VisitingDate != nil {
			lead.VisitingDate = req.VisitingDate
		}
		if req.VisitingLocation != nil {
			lead.VisitingLocation = utils.TrimPtr(req.VisitingLocation)
		}
		if req.CurrentLocation != nil {
			lead.CurrentLocation = utils.TrimPtr(req.CurrentLocation)
		}
		if req.ClientBudget != nil {
			lead.ClientBudget = req.ClientBudget
		}
		if req.Remarks != nil {
			lead.Remarks = utils.TrimPtr(req.Remarks)
		}
		if pkgType != nil {
			lead.PackageType = pkgType
		}
		if req.AttachmentURL != nil {
			lead.AttachmentURL = utils.TrimPtr(req.AttachmentURL)
		}
		lead.UpdatedAt = now()
		return repositories.SaveIfVersion(ctx, lead, tx.Leads().UpdateIfVersion)
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) GetLead(ctx context.Context, session models.Session, leadID uuid.UUID) (*models.Lead, error) {
	var lead *models.Lead
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		lead, err = tx.Leads().GetByID(ctx, leadID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if lead == nil || (session.IsAssociate() && lead.AssociateID != session.UserID) {
		return nil, lifecycle.NotFound("lead", leadID)
	}
	return lead, nil
}

func (s *leadService) ListLeads(ctx context.Context, session models.Session, f models.LeadFilter) ([]*models.Lead, int, error) {
	f.AssociateID = scopeToActor(session, f.AssociateID)

	var leads []*models.Lead
	var total int
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		leads, total, err = tx.Leads().List(ctx, f)
		return err
	})
	return leads, total, err
}

func (s *leadService) DeleteLead(ctx context.Context, session models.Session, leadID uuid.UUID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx repositories.Tx) error {
		pkg, err := tx.Packages().GetByLeadID(ctx, leadID)
		if err != nil {
			return err
		}
		if pkg != nil {
			return &lifecycle.ValidationError{Field: "lead_id", Message: "lead has a package and cannot be deleted"}
		}
		err = tx.Leads().Delete(ctx, leadID)
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.NotFound("lead", leadID)
		}
		return err
	})
}
