package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
)

func TestGenerateCodeShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		code := GenerateCode()
		require.GreaterOrEqual(t, len(code), 20)
		for _, r := range code {
			isLower := r >= 'a' && r <= 'z'
			isDigit := r >= '0' && r <= '9'
			require.True(t, isLower || isDigit, "unexpected rune %q in code", r)
		}
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %q", code)
		seen[code] = struct{}{}
	}
}

func TestPurchaseOpenEvent(t *testing.T) {
	var sentCode string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Event int    `json:"event"`
			User  int    `json:"user"`
			Code  string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.Event)
		assert.Equal(t, 7, body.User)
		sentCode = body.Code
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Ticket{ID: 4, Event: body.Event, User: body.User, Code: body.Code})
	})

	st, client := newTestEnv(t, mux)
	seedSession(st, models.User{ID: 7})

	tickets := NewTicketService(client, st)
	event := models.Event{ID: 3, Title: "Launch party", Date: time.Now().Add(48 * time.Hour)}
	created, err := tickets.Purchase(context.Background(), event)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(sentCode), 20)
	assert.Equal(t, sentCode, created.Code)
	stored, ok := st.Tickets.Get(4)
	require.True(t, ok)
	assert.Equal(t, 7, stored.User)
}

func TestPurchaseClosedEventNeverDispatches(t *testing.T) {
	dispatched := false
	st, client := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dispatched = true
	}))
	seedSession(st, models.User{ID: 7})

	tickets := NewTicketService(client, st)
	event := models.Event{ID: 3, Date: time.Now().Add(-time.Hour)}
	_, err := tickets.Purchase(context.Background(), event)
	assert.ErrorIs(t, err, ErrEventClosed)
	assert.False(t, dispatched)
}

func TestPurchaseRequiresSession(t *testing.T) {
	st, client := newTestEnv(t, http.NotFoundHandler())
	tickets := NewTicketService(client, st)

	event := models.Event{ID: 3, Date: time.Now().Add(time.Hour)}
	_, err := tickets.Purchase(context.Background(), event)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestCancelRemovesTicket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tickets/4/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	st, client := newTestEnv(t, mux)
	seedSession(st, models.User{ID: 7})
	gen := st.Tickets.Begin()
	st.Tickets.SetItems(gen, []models.Ticket{{ID: 4, Event: 3, User: 7}})

	tickets := NewTicketService(client, st)
	require.NoError(t, tickets.Cancel(context.Background(), 4))
	assert.Equal(t, 0, st.Tickets.Len())
}

func TestFetchForUserCarriesDenormalizedEventFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/7/tickets/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{
			{ID: 4, Event: 3, User: 7, Code: "abc123", EventTitle: "Launch party", EventLocation: "Cairo", EventPrice: 99},
		})
	})

	st, client := newTestEnv(t, mux)
	seedSession(st, models.User{ID: 7})

	tickets := NewTicketService(client, st)
	list, err := tickets.FetchForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Launch party", list[0].EventTitle)
	assert.InDelta(t, 99, list[0].EventPrice, 1e-9)
}
