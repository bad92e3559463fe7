// Package authz derives client-side role flags from the team collection.
// The flags only toggle affordances in the view layer; the server enforces
// authorization on every mutating endpoint independently.
package authz

import "github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"

// IsOrganizer reports whether the given user holds the organizer role in the
// team collection. An organizer's own membership counts regardless of its
// invitation status.
func IsOrganizer(teams []models.Team, userID int) bool {
	if userID == 0 {
		return false
	}
	for _, t := range teams {
		if t.User == userID && t.Role == models.RoleOrganizer {
			return true
		}
	}
	return false
}

// IsMember reports whether the given user has an accepted membership in the
// team collection.
func IsMember(teams []models.Team, userID int) bool {
	if userID == 0 {
		return false
	}
	for _, t := range teams {
		if t.User == userID && t.InvitationStatus {
			return true
		}
	}
	return false
}
