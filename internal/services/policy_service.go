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
	"github.com/shopspring/decimal"
)

// PolicyService manages the per package type commission rates. Changing a
// rate never reprices existing packages.
type PolicyService interface {
	ListPolicies(ctx context.Context) ([]*models.CommissionPolicy, error)
	UpsertPolicy(ctx context.Context, s models.Session, req dtos.UpsertPolicyRequest) (*models.CommissionPolicy, error)
	SetPolicyActive(ctx context.Context, s models.Session, pkgType string, active bool) (*models.CommissionPolicy, error)
	// EnsureDefaults creates any missing policy with its default rate.
	EnsureDefaults(ctx context.Context) error
}

type policyService struct {
	store repositories.Store
}

func NewPolicyService(store repositories.Store) PolicyService {
	return &policyService{store: store}
}

var defaultPolicyPercents = map[models.PackageType]string{
	models.PackageTypeDomestic:      constants.DefaultDomesticPercent,
	models.PackageTypeInternational: constants.DefaultInternationalPercent,
	models.PackageTypeResort:        constants.DefaultResortPercent,
}

func parsePackageType(raw string) (models.PackageType, error) {
	t, ok := models.ParsePackageType(strings.TrimSpace(raw))
	if !ok {
		return "", &lifecycle.ValidationError{Field: "package_type", Message: fmt.Sprintf("unknown package type %q", raw)}
	}
	return t, nil
}

func (s *policyService) ListPolicies(ctx context.Context) ([]*models.CommissionPolicy, error) {
	var out []*models.CommissionPolicy
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Policies().List(ctx)
		return err
	})
	return out, err
}

func (s *policyService) UpsertPolicy(ctx context.Context, session models.Session, req dtos.UpsertPolicyRequest) (*models.CommissionPolicy, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	pkgType, err := parsePackageType(req.PackageType)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.ValidateRate(req.CommissionPercent); err != nil {
		return nil, err
	}

	var policy *models.CommissionPolicy
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		policy, err = tx.Policies().GetByType(ctx, pkgType)
		if err != nil {
			return err
		}
		t := now()
		if policy == nil {
			policy = &models.CommissionPolicy{
				ID:                uuid.New(),
				PackageType:       pkgType,
				CommissionPercent: req.CommissionPercent,
				IsActive:          req.IsActive == nil || *req.IsActive,
				CreatedAt:         t,
				UpdatedAt:         t,
			}
			return conflictAsValidation(tx.Policies().Create(ctx, policy),
				"package_type", "policy already exists", utils.ErrPolicyExists)
		}
		policy.CommissionPercent = req.CommissionPercent
		if req.IsActive != nil {
			policy.IsActive = *req.IsActive
		}
		policy.UpdatedAt = t
		return repositories.SaveIfVersion(ctx, policy, tx.Policies().UpdateIfVersion)
	})
	if err != nil {
		return nil, err
	}
	utils.Logger.WithField("packageType", pkgType).Infof("Commission policy set to %s%%", policy.CommissionPercent.String())
	return policy, nil
}

func (s *policyService) SetPolicyActive(ctx context.Context, session models.Session, rawType string, active bool) (*models.CommissionPolicy, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	pkgType, err := parsePackageType(rawType)
	if err != nil {
		return nil, err
	}

	var policy *models.CommissionPolicy
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		policy, err = tx.Policies().GetByType(ctx, pkgType)
		if err != nil {
			return err
		}
		if policy == nil {
			return &lifecycle.NotFoundError{Entity: "commission policy", ID: string(pkgType)}
		}
		if policy.IsActive == active {
			return nil
		}
		policy.IsActive = active
		policy.UpdatedAt = now()
		return repositories.SaveIfVersion(ctx, policy, tx.Policies().UpdateIfVersion)
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *policyService) EnsureDefaults(ctx context.Context) error {
	return s.store.WithTx(ctx, func(tx repositories.Tx) error {
		for _, pkgType := range models.AllPackageTypes {
			existing, err := tx.Policies().GetByType(ctx, pkgType)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			t := now()
			p := &models.CommissionPolicy{
				ID:                uuid.New(),
				PackageType:       pkgType,
				CommissionPercent: decimal.RequireFromString(defaultPolicyPercents[pkgType]),
				IsActive:          true,
				CreatedAt:         t,
				UpdatedAt:         t,
			}
			if err := tx.Policies().Create(ctx, p); err != nil {
				return err
			}
			utils.Logger.WithField("packageType", pkgType).Info("Created default commission policy")
		}
		return nil
	})
}
