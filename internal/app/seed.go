package app

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedUser struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Email       string              `yaml:"email"`
	Role        string              `yaml:"role"`
	Password    string              `yaml:"password"`
	Active      bool                `yaml:"active"`
	Phone       string              `yaml:"phone"`
	Address     string              `yaml:"address"`
	BankDetails *models.BankDetails `yaml:"bank_details"`
}

type seedLead struct {
	ID               string `yaml:"id"`
	Associate        string `yaml:"associate"`
	CustomerName     string `yaml:"customer_name"`
	Phone            string `yaml:"phone"`
	Email            string `yaml:"email"`
	NumberOfPeople   int    `yaml:"number_of_people"`
	VisitingLocation string `yaml:"visiting_location"`
	CurrentLocation  string `yaml:"current_location"`
	ClientBudget     string `yaml:"client_budget"`
	PackageType      string `yaml:"package_type"`
	Status           string `yaml:"status"`
	Remarks          string `yaml:"remarks"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
	Leads []seedLead `yaml:"leads"`
}

func loadSeedFile(raw []byte) (*seedFile, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// SeedTestData inserts the demo admin, associates and leads. Records that
// already exist are left alone, so it is safe on every boot.
func SeedTestData(ctx context.Context, store repositories.Store) error {
	f, err := loadSeedFile(seedYAML)
	if err != nil {
		return err
	}

	return store.WithTx(ctx, func(tx repositories.Tx) error {
		for _, su := range f.Users {
			if err := seedOneUser(ctx, tx, su); err != nil {
				return err
			}
		}
		for _, sl := range f.Leads {
			if err := seedOneLead(ctx, tx, sl); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedOneUser(ctx context.Context, tx repositories.Tx, su seedUser) error {
	existing, err := tx.Users().GetByEmail(ctx, su.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		utils.Logger.Infof("Seed user %s already present (unique_id=%s); skipping.", su.Email, existing.UniqueID)
		return nil
	}

	id, err := uuid.Parse(su.ID)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", su.Email, err)
	}
	role := models.Role(su.Role)
	if !role.Valid() {
		return fmt.Errorf("seed user %s: unknown role %q", su.Email, su.Role)
	}
	hash, err := utils.HashPassword(su.Password)
	if err != nil {
		return err
	}
	code, err := tx.Users().NextUniqueID(ctx, role)
	if err != nil {
		return err
	}

	t := utils.Ptr(time.Now().UTC())
	u := &models.User{
		ID:           id,
		Name:         su.Name,
		Email:        su.Email,
		UniqueID:     code,
		Role:         role,
		IsActive:     su.Active,
		Phone:        su.Phone,
		Address:      su.Address,
		BankDetails:  su.BankDetails,
		PasswordHash: hash,
		CreatedAt:    *t,
		UpdatedAt:    *t,
	}
	if su.Active {
		u.ApprovedAt = t
	}
	if err := tx.Users().Create(ctx, u); err != nil {
		return fmt.Errorf("insert seed user %s: %w", su.Email, err)
	}
	utils.Logger.Infof("Created seed %s %s (%s)", role, u.UniqueID, u.Email)
	return nil
}

func seedOneLead(ctx context.Context, tx repositories.Tx, sl seedLead) error {
	id, err := uuid.Parse(sl.ID)
	if err != nil {
		return fmt.Errorf("seed lead %s: %w", sl.CustomerName, err)
	}
	existing, err := tx.Leads().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		utils.Logger.Infof("Seed lead %s already present; skipping.", id)
		return nil
	}

	owner, err := tx.Users().GetByEmail(ctx, sl.Associate)
	if err != nil {
		return err
	}
	if owner == nil || owner.Role != models.RoleAssociate {
		return fmt.Errorf("seed lead %s: no associate %s", id, sl.Associate)
	}

	status, ok := models.ParseLeadStatus(sl.Status)
	if !ok {
		return fmt.Errorf("seed lead %s: unknown status %q", id, sl.Status)
	}

	t := time.Now().UTC()
	l := &models.Lead{
		ID:               id,
		CustomerName:     sl.CustomerName,
		Phone:            sl.Phone,
		Email:            optional(sl.Email),
		NumberOfPeople:   sl.NumberOfPeople,
		VisitingLocation: optional(sl.VisitingLocation),
		CurrentLocation:  optional(sl.CurrentLocation),
		AssociateID:      owner.ID,
		Status:           status,
		Remarks:          optional(sl.Remarks),
		CreatedAt:        t,
		UpdatedAt:        t,
	}
	if sl.ClientBudget != "" {
		budget, err := decimal.NewFromString(sl.ClientBudget)
		if err != nil {
			return fmt.Errorf("seed lead %s: client_budget: %w", id, err)
		}
		l.ClientBudget = &budget
	}
	if sl.PackageType != "" {
		pt, ok := models.ParsePackageType(sl.PackageType)
		if !ok {
			return fmt.Errorf("seed lead %s: unknown package type %q", id, sl.PackageType)
		}
		l.PackageType = &pt
	}

	if err := tx.Leads().Create(ctx, l); err != nil {
		return fmt.Errorf("insert seed lead %s: %w", id, err)
	}
	utils.Logger.Infof("Created seed lead %s for %s", id, owner.UniqueID)
	return nil
}
