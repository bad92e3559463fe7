package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
)

func TestSetItemsLastWriteWins(t *testing.T) {
	st := New()

	gen := st.Events.Begin()
	st.Events.SetItems(gen, []models.Event{{ID: 1, Title: "A"}})

	gen = st.Events.Begin()
	st.Events.SetItems(gen, []models.Event{{ID: 2, Title: "B"}})

	items := st.Events.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Title)
	assert.Equal(t, StatusSucceeded, st.Events.Status())
}

func TestStaleFetchDiscarded(t *testing.T) {
	st := New()

	early := st.Events.Begin()
	late := st.Events.Begin()

	require.True(t, st.Events.SetItems(late, []models.Event{{ID: 2, Title: "fresh"}}))
	require.False(t, st.Events.SetItems(early, []models.Event{{ID: 1, Title: "stale"}}))

	items := st.Events.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)

	// a stale failure must not clobber the newer status either
	require.False(t, st.Events.Fail(early, "boom"))
	assert.Equal(t, StatusSucceeded, st.Events.Status())
	assert.Empty(t, st.Events.Err())
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	st := New()

	gen := st.Tasks.Begin()
	before := []models.Task{{ID: 1, Title: "setup"}, {ID: 2, Title: "catering"}}
	st.Tasks.SetItems(gen, before)

	st.Tasks.Insert(models.Task{ID: 3, Title: "cleanup"})
	require.Equal(t, 3, st.Tasks.Len())

	st.Tasks.Remove(3)
	assert.Equal(t, before, st.Tasks.Items())
}

func TestPatchAbsentIsNoop(t *testing.T) {
	st := New()

	gen := st.Tasks.Begin()
	before := []models.Task{{ID: 1, Title: "setup"}, {ID: 2, Title: "catering"}}
	st.Tasks.SetItems(gen, before)

	assert.False(t, st.Tasks.Patch(models.Task{ID: 99, Title: "ghost"}))
	assert.Equal(t, before, st.Tasks.Items())
}

func TestFailKeepsLastKnownData(t *testing.T) {
	st := New()

	gen := st.Events.Begin()
	st.Events.SetItems(gen, []models.Event{{ID: 1, Title: "A"}})

	gen = st.Events.Begin()
	st.Events.Fail(gen, "server unavailable")

	assert.Equal(t, StatusFailed, st.Events.Status())
	assert.Equal(t, "server unavailable", st.Events.Err())
	assert.Equal(t, 1, st.Events.Len())
}

func TestBeginKeepsStaleData(t *testing.T) {
	st := New()

	gen := st.Events.Begin()
	st.Events.SetItems(gen, []models.Event{{ID: 1}})

	st.Events.Begin()
	assert.Equal(t, StatusLoading, st.Events.Status())
	assert.Equal(t, 1, st.Events.Len())
}

func TestIsOrganizerDerivation(t *testing.T) {
	st := New()

	gen := st.Session.Begin()
	st.Session.Set(gen, models.User{ID: 7, Username: "alice"}, "tok", time.Time{})

	gen = st.Teams.Begin()
	st.Teams.SetItems(gen, []models.Team{
		{ID: 1, User: 7, Role: models.RoleOrganizer, InvitationStatus: true},
	})
	assert.True(t, st.IsOrganizer())

	gen = st.Teams.Begin()
	st.Teams.SetItems(gen, []models.Team{
		{ID: 1, User: 7, Role: models.RoleParticipant, InvitationStatus: true},
	})
	assert.False(t, st.IsOrganizer())

	gen = st.Teams.Begin()
	st.Teams.SetItems(gen, nil)
	assert.False(t, st.IsOrganizer())
}

func TestBudgetTotal(t *testing.T) {
	st := New()

	gen := st.BudgetItems.Begin()
	st.BudgetItems.SetItems(gen, []models.BudgetItem{
		{ID: 1, Amount: 10.50},
		{ID: 2, Amount: 20.25},
		{ID: 3, Amount: 5.00},
	})
	assert.InDelta(t, 35.75, st.BudgetTotal(), 1e-9)

	st.BudgetItems.Insert(models.BudgetItem{ID: 4, Amount: 4.25})
	assert.InDelta(t, 40.00, st.BudgetTotal(), 1e-9)
}

func TestSessionLifecycle(t *testing.T) {
	st := New()
	assert.False(t, st.Session.Authenticated())

	gen := st.Session.Begin()
	assert.Equal(t, StatusLoading, st.Session.Status())

	st.Session.Set(gen, models.User{ID: 3, Username: "bob"}, "tok", time.Now().Add(time.Hour))
	assert.True(t, st.Session.Authenticated())
	assert.Equal(t, 3, st.Session.UserID())
	assert.Equal(t, "tok", st.Session.Token())

	st.Session.Clear()
	assert.False(t, st.Session.Authenticated())
	assert.Equal(t, 0, st.Session.UserID())
	assert.Equal(t, StatusIdle, st.Session.Status())
}

func TestSessionExpiredTokenUnusable(t *testing.T) {
	st := New()

	gen := st.Session.Begin()
	st.Session.Set(gen, models.User{ID: 3}, "tok", time.Now().Add(-time.Minute))
	assert.Empty(t, st.Session.Token())
	assert.False(t, st.Session.Authenticated())
}

func TestSubscribeNotifiesKind(t *testing.T) {
	st := New()

	var kinds []string
	unsubscribe := st.Subscribe(func(kind string) { kinds = append(kinds, kind) })

	gen := st.Events.Begin()
	st.Events.SetItems(gen, []models.Event{{ID: 1}})
	assert.Equal(t, []string{KindEvents, KindEvents}, kinds)

	unsubscribe()
	st.Events.Insert(models.Event{ID: 2})
	assert.Len(t, kinds, 2)
}
