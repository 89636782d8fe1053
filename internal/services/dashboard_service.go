package services

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
)

type DashboardService interface {
	Stats(ctx context.Context, s models.Session) (*dtos.DashboardStats, error)
}

type dashboardService struct {
	store repositories.Store
}

func NewDashboardService(store repositories.Store) DashboardService {
	return &dashboardService{store: store}
}

// Stats is role scoped: associates see their own numbers, admins the whole
// book plus the approval queue length.
func (s *dashboardService) Stats(ctx context.Context, session models.Session) (*dtos.DashboardStats, error) {
	scope := scopeToActor(session, nil)
	stats := &dtos.DashboardStats{}

	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		leads, err := tx.Leads().CountByStatus(ctx, scope)
		if err != nil {
			return err
		}
		pkgs, err := tx.Packages().CountByStatus(ctx, scope)
		if err != nil {
			return err
		}
		sum, err := tx.Commissions().Summary(ctx, scope)
		if err != nil {
			return err
		}
		unread, err := tx.Notifications().CountUnread(ctx, session)
		if err != nil {
			return err
		}

		stats.LeadsByStatus = make(map[models.LeadStatus]int, len(models.AllLeadStatuses))
		for _, st := range models.AllLeadStatuses {
			stats.LeadsByStatus[st] = leads[st]
			stats.TotalLeads += leads[st]
		}
		stats.PackagesByStatus = make(map[models.PackageStatus]int, len(models.AllPackageStatuses))
		for _, st := range models.AllPackageStatuses {
			stats.PackagesByStatus[st] = pkgs[st]
		}
		stats.Commissions = *sum
		stats.UnreadNotifs = unread

		if session.IsAdmin() {
			role := models.RoleAssociate
			state := models.AccountStatePending
			_, pending, err := tx.Users().List(ctx, models.UserFilter{Role: &role, State: &state, PageSize: 1})
			if err != nil {
				return err
			}
			stats.PendingAssociates = &pending
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
