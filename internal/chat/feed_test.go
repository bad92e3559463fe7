package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/services"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// chatServer serves one event's message history and accepts multipart sends.
type chatServer struct {
	t       *testing.T
	history []models.Message
	nextID  int
}

func (s *chatServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/3/messages/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(s.history)
	})
	mux.HandleFunc("POST /messages/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(s.t, r.ParseMultipartForm(1<<20))
		event, err := strconv.Atoi(r.FormValue("event"))
		require.NoError(s.t, err)
		sender, err := strconv.Atoi(r.FormValue("sender"))
		require.NoError(s.t, err)

		s.nextID++
		msg := models.Message{
			ID:             s.nextID,
			Event:          event,
			Sender:         sender,
			SenderUsername: "alice",
			Content:        r.FormValue("content"),
			CreatedAt:      time.Now().UTC(),
		}
		if file, header, err := r.FormFile("image"); err == nil {
			data, readErr := io.ReadAll(file)
			require.NoError(s.t, readErr)
			require.NotEmpty(s.t, data)
			msg.Image = "/media/messages/" + header.Filename
		}
		s.history = append(s.history, msg)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(msg)
	})
	return mux
}

func newFeedEnv(t *testing.T, server *chatServer) (*store.Store, *Feed) {
	t.Helper()
	ts := httptest.NewServer(server.handler())
	t.Cleanup(ts.Close)

	st := store.New()
	gen := st.Session.Begin()
	st.Session.Set(gen, models.User{ID: 7, Username: "alice"}, "test-token", time.Now().Add(time.Hour))

	client := api.New(ts.URL, 5*time.Second, st.Session, zerolog.Nop())
	messages := services.NewMessageService(client, st)
	return st, NewFeed(messages, st, 3)
}

func at(minute int) time.Time {
	return time.Date(2026, 8, 30, 12, minute, 0, 0, time.UTC)
}

func TestOpenNormalizesToAscendingOrder(t *testing.T) {
	server := &chatServer{t: t, nextID: 3, history: []models.Message{
		{ID: 2, Event: 3, Sender: 9, Content: "second", CreatedAt: at(10)},
		{ID: 3, Event: 3, Sender: 7, Content: "third", CreatedAt: at(20)},
		{ID: 1, Event: 3, Sender: 7, Content: "first", CreatedAt: at(5)},
	}}
	_, feed := newFeedEnv(t, server)

	require.NoError(t, feed.Open(context.Background()))

	msgs := feed.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
	assert.Equal(t, store.StatusSucceeded, feed.Status())
}

func TestSendTextOnlyAppendsWithoutImage(t *testing.T) {
	server := &chatServer{t: t}
	_, feed := newFeedEnv(t, server)
	require.NoError(t, feed.Open(context.Background()))

	var appended []models.Message
	feed.OnAppend(func(m models.Message) { appended = append(appended, m) })

	sent, err := feed.Send(context.Background(), "hello there", nil)
	require.NoError(t, err)

	assert.Empty(t, sent.Image)
	assert.Equal(t, 7, sent.Sender)
	require.Len(t, appended, 1)

	msgs := feed.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello there", msgs[0].Content)
}

func TestSendWithImageCarriesReference(t *testing.T) {
	server := &chatServer{t: t}
	_, feed := newFeedEnv(t, server)
	require.NoError(t, feed.Open(context.Background()))

	att, err := StageAttachment("venue.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	sent, err := feed.Send(context.Background(), "look at this", att)
	require.NoError(t, err)

	assert.Equal(t, "/media/messages/venue.png", sent.Image)
	// the staged bytes are dropped once the server confirmed the message
	assert.True(t, att.Released())
}

func TestSendKeepsTimestampOrder(t *testing.T) {
	server := &chatServer{t: t, nextID: 1, history: []models.Message{
		{ID: 1, Event: 3, Sender: 9, Content: "earlier", CreatedAt: at(0)},
	}}
	_, feed := newFeedEnv(t, server)
	require.NoError(t, feed.Open(context.Background()))

	_, err := feed.Send(context.Background(), "latest", nil)
	require.NoError(t, err)

	msgs := feed.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "earlier", msgs[0].Content)
	assert.Equal(t, "latest", msgs[1].Content)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	server := &chatServer{t: t}
	_, feed := newFeedEnv(t, server)

	_, err := feed.Send(context.Background(), "", nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestSendReleasedAttachmentFails(t *testing.T) {
	server := &chatServer{t: t}
	_, feed := newFeedEnv(t, server)

	att, err := StageAttachment("venue.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	att.Release()

	_, err = feed.Send(context.Background(), "text", att)
	assert.ErrorIs(t, err, ErrAttachmentReleased)
}

func TestAttachmentStaging(t *testing.T) {
	att, err := StageAttachment("venue.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "venue.png", att.Name())
	assert.Equal(t, len("png-bytes"), att.Size())
	assert.False(t, att.Released())

	preview, err := io.ReadAll(att.Preview())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(preview))

	att.Release()
	assert.True(t, att.Released())
	assert.Zero(t, att.Size())
	// releasing twice is fine
	att.Release()
}
