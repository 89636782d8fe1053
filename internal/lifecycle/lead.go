package lifecycle

import (
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

// Moves an associate may make on their own lead. Statuses absent from the
// table are terminal for associates.
var associateLeadTransitions = map[models.LeadStatus][]models.LeadStatus{
	models.LeadStatusNotAnswer: {
		models.LeadStatusNotInterested,
		models.LeadStatusNotDecide,
		models.LeadStatusConfirmed,
	},
	models.LeadStatusNotDecide: {
		models.LeadStatusNotAnswer,
		models.LeadStatusNotInterested,
		models.LeadStatusConfirmed,
	},
}

// ParseLeadStatus maps a client-supplied status to the closed enum.
func ParseLeadStatus(raw string) (models.LeadStatus, error) {
	st, ok := models.ParseLeadStatus(strings.TrimSpace(raw))
	if !ok {
		return "", invalid("status", "unknown lead status %q", raw)
	}
	return st, nil
}

// AssociateLeadTargets lists the statuses an associate may move a lead to.
func AssociateLeadTargets(from models.LeadStatus) []models.LeadStatus {
	return associateLeadTransitions[from]
}

// CheckLeadTransition validates a lead status change by an actor of the
// given role. Admins hold override authority over every move. Re-asserting
// the current status is always allowed and changes nothing.
func CheckLeadTransition(role models.Role, from, to models.LeadStatus) error {
	if from == to {
		return nil
	}
	if role == models.RoleAdmin {
		return nil
	}
	for _, allowed := range associateLeadTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{
		Entity: "lead",
		From:   string(from),
		To:     string(to),
		Reason: "not permitted for associates",
	}
}

// LeadStatusForPackage returns the lead status a package status implies,
// if any. Package status is authoritative for the trip outcome.
func LeadStatusForPackage(st models.PackageStatus) (models.LeadStatus, bool) {
	switch st {
	case models.PackageStatusTripComplete:
		return models.LeadStatusTripCompleted, true
	case models.PackageStatusCancelled:
		return models.LeadStatusTripCancelled, true
	}
	return "", false
}

// ValidatePeople enforces the 1..50 party size.
func ValidatePeople(n int) error {
	if n < models.MinPeoplePerLead || n > models.MaxPeoplePerLead {
		return invalid("number_of_people", "must be between %d and %d", models.MinPeoplePerLead, models.MaxPeoplePerLead)
	}
	return nil
}
