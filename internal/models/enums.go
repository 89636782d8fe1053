package models

// Role of an authenticated user. Immutable after creation.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAssociate Role = "associate"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAssociate
}

// LeadStatus is the sales-pipeline status of a Lead.
type LeadStatus string

const (
	LeadStatusNotAnswer     LeadStatus = "NotAnswer"
	LeadStatusNotInterested LeadStatus = "NotInterested"
	LeadStatusNotDecide     LeadStatus = "NotDecide"
	LeadStatusConfirmed     LeadStatus = "Confirmed"
	LeadStatusTripCompleted LeadStatus = "TripCompleted"
	LeadStatusTripCancelled LeadStatus = "TripCancelled"
)

// AllLeadStatuses lists every lead status in pipeline order.
var AllLeadStatuses = []LeadStatus{
	LeadStatusNotAnswer,
	LeadStatusNotInterested,
	LeadStatusNotDecide,
	LeadStatusConfirmed,
	LeadStatusTripCompleted,
	LeadStatusTripCancelled,
}

// ParseLeadStatus accepts exactly the canonical status names.
func ParseLeadStatus(s string) (LeadStatus, bool) {
	for _, st := range AllLeadStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type PackageType string

const (
	PackageTypeDomestic      PackageType = "Domestic"
	PackageTypeInternational PackageType = "International"
	PackageTypeResort        PackageType = "Resort"
)

var AllPackageTypes = []PackageType{
	PackageTypeDomestic,
	PackageTypeInternational,
	PackageTypeResort,
}

func ParsePackageType(s string) (PackageType, bool) {
	for _, t := range AllPackageTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type PackageStatus string

const (
	PackageStatusDraft        PackageStatus = "Draft"
	PackageStatusApproved     PackageStatus = "Approved"
	PackageStatusTripComplete PackageStatus = "TripComplete"
	PackageStatusCancelled    PackageStatus = "Cancelled"
)

var AllPackageStatuses = []PackageStatus{
	PackageStatusDraft,
	PackageStatusApproved,
	PackageStatusTripComplete,
	PackageStatusCancelled,
}

func ParsePackageStatus(s string) (PackageStatus, bool) {
	for _, st := range AllPackageStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "Pending"
	CommissionStatusPaid    CommissionStatus = "Paid"
)

func ParseCommissionStatus(s string) (CommissionStatus, bool) {
	switch CommissionStatus(s) {
	case CommissionStatusPending, CommissionStatusPaid:
		return CommissionStatus(s), true
	}
	return "", false
}

// NotificationType enumerates the business events that produce a
// Notification.
type NotificationType string

const (
	NotificationNewRegistration    NotificationType = "new_registration"
	NotificationAssociateApproved  NotificationType = "associate_approved"
	NotificationNewLead            NotificationType = "new_lead"
	NotificationLeadConfirmed      NotificationType = "lead_confirmed"
	NotificationPackageCreated     NotificationType = "package_created"
	NotificationPackageApproved    NotificationType = "package_approved"
	NotificationPackageStatus      NotificationType = "package_status"
	NotificationCommissionPaid     NotificationType = "commission_paid"
	NotificationCommissionReminder NotificationType = "commission_reminder"
	NotificationAccountDeactivated NotificationType = "account_deactivated"
)
