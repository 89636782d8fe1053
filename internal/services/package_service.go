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

type PackageService interface {
	CreatePackage(ctx context.Context, s models.Session, req dtos.CreatePackageRequest) (*models.Package, error)
	ApprovePackage(ctx context.Context, s models.Session, packageID uuid.UUID, req dtos.ApprovePackageRequest) (*models.Package, error)
	UpdatePackageStatus(ctx context.Context, s models.Session, packageID uuid.UUID, status string) (*models.Package, error)
	GetPackage(ctx context.Context, s models.Session, packageID uuid.UUID) (*models.Package, error)
	ListPackages(ctx context.Context, s models.Session, f models.PackageFilter) ([]*models.Package, int, error)
}

type packageService struct {
	store     repositories.Store
	publisher NotificationPublisher
}

func NewPackageService(store repositories.Store, publisher NotificationPublisher) PackageService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &packageService{store: store, publisher: publisher}
}

func (s *packageService) CreatePackage(ctx context.Context, session models.Session, req dtos.CreatePackageRequest) (*models.Package, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	pkgType, ok := models.ParsePackageType(strings.TrimSpace(req.PackageType))
	if !ok {
		return nil, &lifecycle.ValidationError{Field: "package_type", Message: fmt.Sprintf("unknown package type %q", req.PackageType)}
	}

	var pkg *models.Package
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		lead, err := tx.Leads().GetForUpdate(ctx, req.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return lifecycle.NotFound("lead", req.LeadID)
		}
		existing, err := tx.Packages().GetByLeadID(ctx, lead.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckPackageSource(lead, existing != nil); err != nil {
			return err
		}

		var rate = req.CommissionPercent
		if rate == nil {
			policy, err := tx.Policies().GetByType(ctx, pkgType)
			if err != nil {
				return err
			}
			if policy == nil || !policy.IsActive {
				return &lifecycle.ValidationError{
					Field:   "package_type",
					Message: fmt.Sprintf("no active commission policy for %s", pkgType),
				}
			}
			rate = &policy.CommissionPercent
		}

		pkg, err = lifecycle.NewPackage(lead, pkgType, req.BaseAmount, *rate, now())
		if err != nil {
			return err
		}
		pkg.ID = uuid.New()
		if err := tx.Packages().Create(ctx, pkg); err != nil {
			return conflictAsValidation(err, "lead_id", "lead already has a package", utils.ErrPackageExistsForLead)
		}

		msg := fmt.Sprintf("A %s package was created for %s", pkg.PackageType, lead.CustomerName)
		return box.toAssociate(ctx, tx, lead.AssociateID, models.NotificationPackageCreated, "Package created", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)

	utils.Logger.WithFields(logrus.Fields{
		"packageID": pkg.ID, "leadID": pkg.LeadID,
		"base": pkg.BaseAmount.StringFixed(2), "commission": pkg.CommissionAmount.StringFixed(2),
	}).Info("Package created")
	return pkg, nil
}

func (s *packageService) ApprovePackage(ctx context.Context, session models.Session, packageID uuid.UUID, req dtos.ApprovePackageRequest) (*models.Package, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var pkg *models.Package
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		pkg, err = tx.Packages().GetForUpdate(ctx, packageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return lifecycle.NotFound("package", packageID)
		}
		lead, err := tx.Leads().GetByID(ctx, pkg.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return lifecycle.NotFound("lead", pkg.LeadID)
		}

		ov := lifecycle.ApprovalOverrides{FinalAmount: req.FinalAmount, CommissionAmount: req.CommissionAmount}
		if err := lifecycle.ApprovePackage(pkg, ov, now()); err != nil {
			return err
		}
		if err := repositories.SaveIfVersion(ctx, pkg, tx.Packages().UpdateIfVersion); err != nil {
			return err
		}

		msg := fmt.Sprintf("Package for %s approved. Your commission is %s", lead.CustomerName, pkg.CommissionAmount.StringFixed(2))
		return box.toAssociate(ctx, tx, lead.AssociateID, models.NotificationPackageApproved, "Package approved", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	return pkg, nil
}

func (s *packageService) UpdatePackageStatus(ctx context.Context, session models.Session, packageID uuid.UUID, status string) (*models.Package, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	target, ok := models.ParsePackageStatus(strings.TrimSpace(status))
	if !ok {
		return nil, &lifecycle.ValidationError{Field: "status", Message: fmt.Sprintf("unknown package status %q", status)}
	}

	var pkg *models.Package
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		pkg, err = tx.Packages().GetForUpdate(ctx, packageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return lifecycle.NotFound("package", packageID)
		}
		if target == models.PackageStatusApproved {
			return &lifecycle.InvalidTransitionError{
				Entity: "package",
				From:   string(pkg.Status),
				To:     string(target),
				Reason: "use the approve action",
			}
		}
		if err := lifecycle.CheckPackageTransition(pkg, target); err != nil {
			return err
		}

		t := now()
		pkg.Status = target
		pkg.UpdatedAt = t
		if err := repositories.SaveIfVersion(ctx, pkg, tx.Packages().UpdateIfVersion); err != nil {
			return err
		}

		lead, err := tx.Leads().GetForUpdate(ctx, pkg.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return lifecycle.NotFound("lead", pkg.LeadID)
		}
		if leadStatus, ok := lifecycle.LeadStatusForPackage(target); ok && lead.Status != leadStatus {
			lead.Status = leadStatus
			lead.UpdatedAt = t
			if err := repositories.SaveIfVersion(ctx, lead, tx.Leads().UpdateIfVersion); err != nil {
				return err
			}
		}

		msg := fmt.Sprintf("Package for %s is now %s", lead.CustomerName, target)
		return box.toAssociate(ctx, tx, lead.AssociateID, models.NotificationPackageStatus, "Package updated", &msg)
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.publisher)
	return pkg, nil
}

func (s *packageService) GetPackage(ctx context.Context, session models.Session, packageID uuid.UUID) (*models.Package, error) {
	var pkg *models.Package
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		pkg, err = tx.Packages().GetByID(ctx, packageID)
		if err != nil || pkg == nil || !session.IsAssociate() {
			return err
		}
		lead, err := tx.Leads().GetByID(ctx, pkg.LeadID)
		if err != nil {
			return err
		}
		if lead == nil || lead.AssociateID != session.UserID {
			pkg = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, lifecycle.NotFound("package", packageID)
	}
	return pkg, nil
}

func (s *packageService) ListPackages(ctx context.Context, session models.Session, f models.PackageFilter) ([]*models.Package, int, error) {
	f.AssociateID = scopeToActor(session, f.AssociateID)

	var pkgs []*models.Package
	var total int
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		pkgs, total, err = tx.Packages().List(ctx, f)
		return err
	})
	return pkgs, total, err
}
