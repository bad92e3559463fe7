package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// newTestEnv spins up a fake API server and a store/client pair against it.
func newTestEnv(t *testing.T, handler http.Handler) (*store.Store, *api.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st := store.New()
	client := api.New(server.URL, 5*time.Second, st.Session, zerolog.Nop())
	return st, client
}

// seedSession installs an authenticated session directly, bypassing login.
func seedSession(st *store.Store, user models.User) {
	gen := st.Session.Begin()
	st.Session.Set(gen, user, "test-token", time.Now().Add(time.Hour))
}

// seedOrganizer loads a team collection in which the user is an organizer.
func seedOrganizer(st *store.Store, eventID, userID int) {
	gen := st.Teams.Begin()
	st.Teams.SetItems(gen, []models.Team{
		{ID: 1, Event: eventID, User: userID, Role: models.RoleOrganizer, InvitationStatus: true},
	})
}

// seedParticipant loads a team collection in which the user is a participant.
func seedParticipant(st *store.Store, eventID, userID int) {
	gen := st.Teams.Begin()
	st.Teams.SetItems(gen, []models.Team{
		{ID: 1, Event: eventID, User: userID, Role: models.RoleParticipant, InvitationStatus: true},
	})
}
