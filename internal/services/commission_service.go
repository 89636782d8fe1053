package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CommissionService interface {
	// RecordPayment records (or marks Paid) the commission for one package.
	// A package is paid at most once.
	RecordPayment(ctx context.Context, s models.Session, req dtos.RecordPaymentRequest) (*models.Commission, error)
	ListCommissions(ctx context.Context, s models.Session, f models.CommissionFilter) ([]*models.Commission, int, error)
	Summary(ctx context.Context, s models.Session, associateID *uuid.UUID) (*models.CommissionSummary, error)
}

type commissionService struct {
	store     repositories.Store
	messenger Messenger
	publisher NotificationPublisher
}

func NewCommissionService(store repositories.Store, messenger Messenger, publisher NotificationPublisher) CommissionService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &commissionService{store: store, messenger: messenger, publisher: publisher}
}

// resolvePaymentTarget finds the package a payment request is about, either
// directly or through its lead.
func resolvePaymentTarget(ctx context.Context, tx repositories.Tx, req dtos.RecordPaymentRequest) (*models.Package, *models.Lead, error) {
	var pkg *models.Package
	var err error

	switch {
	case req.PackageID != nil:
		pkg, err = tx.Packages().GetForUpdate(ctx, *req.PackageID)
		if err != nil {
			return nil, nil, err
		}
		if pkg == nil {
			return nil, nil, lifecycle.NotFound("package", *req.PackageID)
		}
	case req.LeadID != nil:
		byLead, err := tx.Packages().GetByLeadID(ctx, *req.LeadID)
		if err != nil {
			return nil, nil, err
		}
		if byLead == nil {
			lead, err := tx.Leads().GetByID(ctx, *req.LeadID)
			if err != nil {
				return nil, nil, err
			}
			if lead == nil {
				return nil, nil, lifecycle.NotFound("lead", *req.LeadID)
			}
			return nil, nil, &lifecycle.ValidationError{Field: "lead_id", Message: "lead has no package"}
		}
		pkg, err = tx.Packages().GetForUpdate(ctx, byLead.ID)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, &lifecycle.ValidationError{Field: "package_id", Message: "package_id or lead_id is required"}
	}

	if req.PackageID != nil && req.LeadID != nil && pkg.LeadID != *req.LeadID {
		return nil, nil, &lifecycle.ValidationError{Field: "lead_id", Message: "does not match the package"}
	}

	lead, err := tx.Leads().GetByID(ctx, pkg.LeadID)
	if err != nil {
		return nil, nil, err
	}
	if lead == nil {
		return nil, nil, lifecycle.NotFound("lead", pkg.LeadID)
	}
	return pkg, lead, nil
}

func (s *commissionService) RecordPayment(ctx context.Context, session models.Session, req dtos.RecordPaymentRequest) (*models.Commission, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	status := models.CommissionStatusPaid
	if req.Status != "" {
		st, ok := models.ParseCommissionStatus(req.Status)
		if !ok {
			return nil, &lifecycle.ValidationError{Field: "status", Message: fmt.Sprintf("unknown commission status %q", req.Status)}
		}
		status = st
	}
	in := lifecycle.PaymentInput{
		Status:        status,
		Amount:        req.Amount,
		AssociateID:   req.AssociateID,
		TransactionID: req.TransactionID,
		ScreenshotURL: utils.TrimPtr(req.ScreenshotURL),
		PaymentDate:   req.PaymentDate,
	}

	var commission *models.Commission
	var associate *models.User
	var packageID uuid.UUID
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		pkg, lead, err := resolvePaymentTarget(ctx, tx, req)
		if err != nil {
			return err
		}
		packageID = pkg.ID
		paid, err := tx.Commissions().GetPaidByPackageID(ctx, pkg.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckPayment(pkg, lead, paid, in); err != nil {
			return err
		}

		pending, err := tx.Commissions().GetPendingByPackageID(ctx, pkg.ID)
		if err != nil {
			return err
		}
		t := now()

		if in.Status == models.CommissionStatusPending {
			if pending != nil {
				commission = pending
				return nil
			}
			commission = &models.Commission{ID: uuid.New()}
			lifecycle.ApplyPayment(commission, pkg, lead, in, t)
			return tx.Commissions().Create(ctx, commission)
		}

		if pending != nil {
			commission = pending
			lifecycle.ApplyPayment(commission, pkg, lead, in, t)
			if err := repositories.SaveIfVersion(ctx, commission, tx.Commissions().UpdateIfVersion); err != nil {
				return err
			}
		} else {
			commission = &models.Commission{ID: uuid.New()}
			lifecycle.ApplyPayment(commission, pkg, lead, in, t)
			if err := tx.Commissions().Create(ctx, commission); err != nil {
				return err
			}
		}

		associate, err = tx.Users().GetByID(ctx, lead.AssociateID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Commission of %s for %s has been paid (ref %s)",
			commission.Amount.StringFixed(2), lead.CustomerName, utils.Val(commission.TransactionID))
		return box.toAssociate(ctx, tx, lead.AssociateID, models.NotificationCommissionPaid, "Commission paid", &msg)
	})
	if errors.Is(err, utils.ErrPaidCommissionExists) {
		// Lost a race with a concurrent payment for the same package.
		return nil, &lifecycle.AlreadyPaidError{PackageID: packageID}
	}
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)

	if commission.Status == models.CommissionStatusPaid {
		utils.Logger.WithFields(logrus.Fields{
			"commissionID": commission.ID, "packageID": commission.PackageID,
			"amount": commission.Amount.StringFixed(2),
		}).Info("Commission paid")
		s.sendReceipt(ctx, associate, commission)
	}
	return commission, nil
}

func (s *commissionService) sendReceipt(ctx context.Context, associate *models.User, c *models.Commission) {
	if s.messenger == nil || associate == nil || associate.Email == "" {
		return
	}
	amount := c.Amount.StringFixed(2)
	ref := utils.Val(c.TransactionID)
	plain := fmt.Sprintf("Hi %s,\n\nYour commission of %s has been paid. Transaction reference: %s.\n", associate.Name, amount, ref)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your commission of <strong>%s</strong> has been paid.</p><p>Transaction reference: %s</p>", associate.Name, amount, ref)
	err := s.messenger.SendEmail(ctx, associate.Name, associate.Email, constants.EmailSubjectCommissionPaid, plain, html)
	logBestEffort(err, "commission receipt email", logrus.Fields{"commissionID": c.ID})
}

func (s *commissionService) ListCommissions(ctx context.Context, session models.Session, f models.CommissionFilter) ([]*models.Commission, int, error) {
	f.AssociateID = scopeToActor(session, f.AssociateID)

	var out []*models.Commission
	var total int
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		out, total, err = tx.Commissions().List(ctx, f)
		return err
	})
	return out, total, err
}

func (s *commissionService) Summary(ctx context.Context, session models.Session, associateID *uuid.UUID) (*models.CommissionSummary, error) {
	associateID = scopeToActor(session, associateID)

	var sum *models.CommissionSummary
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		sum, err = tx.Commissions().Summary(ctx, associateID)
		return err
	})
	return sum, err
}
