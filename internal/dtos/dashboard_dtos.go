package dtos

import "github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"

type DashboardStats struct {
	LeadsByStatus     map[models.LeadStatus]int    `json:"leads_by_status"`
	PackagesByStatus  map[models.PackageStatus]int `json:"packages_by_status"`
	TotalLeads        int                          `json:"total_leads"`
	Commissions       models.CommissionSummary     `json:"commissions"`
	UnreadNotifs      int                          `json:"unread_notifications"`
	PendingAssociates *int                         `json:"pending_associates,omitempty"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}
