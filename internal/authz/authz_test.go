package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
)

func TestIsOrganizer(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Event: 3, User: 7, Role: models.RoleOrganizer, InvitationStatus: true},
		{ID: 2, Event: 3, User: 9, Role: models.RoleParticipant, InvitationStatus: true},
	}

	assert.True(t, IsOrganizer(teams, 7))
	assert.False(t, IsOrganizer(teams, 9))
	assert.False(t, IsOrganizer(teams, 11))
	assert.False(t, IsOrganizer(teams, 0))
	assert.False(t, IsOrganizer(nil, 7))
}

func TestIsOrganizerIgnoresInvitationStatus(t *testing.T) {
	// an organizer's own membership counts even while nominally pending
	teams := []models.Team{
		{ID: 1, User: 7, Role: models.RoleOrganizer, InvitationStatus: false},
	}
	assert.True(t, IsOrganizer(teams, 7))
}

func TestIsMember(t *testing.T) {
	teams := []models.Team{
		{ID: 1, User: 7, Role: models.RoleParticipant, InvitationStatus: true},
		{ID: 2, User: 9, Role: models.RoleParticipant, InvitationStatus: false},
	}

	assert.True(t, IsMember(teams, 7))
	assert.False(t, IsMember(teams, 9))
	assert.False(t, IsMember(teams, 0))
}
