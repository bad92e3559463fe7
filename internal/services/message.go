package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// MessageService handles the chat message operations. The feed in the chat
// package drives fetch and send; update and delete exist because the API
// exposes them but no view uses them.
type MessageService struct {
	api   *api.Client
	store *store.Store
}

// NewMessageService creates a new message service
func NewMessageService(client *api.Client, st *store.Store) *MessageService {
	return &MessageService{api: client, store: st}
}

// FetchForEvent loads the full message history of an event. No pagination;
// the API returns the whole collection every time.
func (s *MessageService) FetchForEvent(ctx context.Context, eventID int) ([]models.Message, error) {
	gen := s.store.Messages.Begin()
	var messages []models.Message
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(eventID)+"/messages/", true, &messages); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to fetch messages")
		s.store.Messages.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch messages for event %d: %w", eventID, err)
	}
	s.store.Messages.SetItems(gen, messages)
	return messages, nil
}

// FetchByID loads a single message.
func (s *MessageService) FetchByID(ctx context.Context, id int) (models.Message, error) {
	gen := s.store.Messages.Begin()
	var message models.Message
	if err := s.api.Get(ctx, "/messages/"+strconv.Itoa(id)+"/", true, &message); err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("Failed to fetch message")
		s.store.Messages.Fail(gen, err.Error())
		return models.Message{}, fmt.Errorf("fetch message %d: %w", id, err)
	}
	s.store.Messages.SetItem(gen, message)
	return message, nil
}

// Send submits a message as one multipart request (content, event, sender,
// optional image) and appends the server's canonical echo to the loaded
// collection. There is no optimistic local echo.
func (s *MessageService) Send(ctx context.Context, eventID int, content string, image *api.FileField) (models.Message, error) {
	senderID := s.store.Session.UserID()
	if senderID == 0 {
		return models.Message{}, api.ErrUnauthenticated
	}
	if content == "" && image == nil {
		return models.Message{}, fmt.Errorf("%w: message needs text or an image", ErrValidation)
	}
	gen := s.store.Messages.Begin()
	fields := map[string]string{
		"content": content,
		"event":   strconv.Itoa(eventID),
		"sender":  strconv.Itoa(senderID),
	}
	var created models.Message
	if err := s.api.PostForm(ctx, "/messages/", true, fields, image, &created); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to send message")
		s.store.Messages.Fail(gen, err.Error())
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	s.store.Messages.Insert(created)
	return created, nil
}

// Update patches a message's content and attachment.
func (s *MessageService) Update(ctx context.Context, id int, content string, image *api.FileField) (models.Message, error) {
	gen := s.store.Messages.Begin()
	fields := map[string]string{"content": content}
	var updated models.Message
	if err := s.api.PatchForm(ctx, "/messages/"+strconv.Itoa(id)+"/", true, fields, image, &updated); err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("Failed to update message")
		s.store.Messages.Fail(gen, err.Error())
		return models.Message{}, fmt.Errorf("update message %d: %w", id, err)
	}
	s.store.Messages.Patch(updated)
	return updated, nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id int) error {
	gen := s.store.Messages.Begin()
	if err := s.api.Delete(ctx, "/messages/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("Failed to delete message")
		s.store.Messages.Fail(gen, err.Error())
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	s.store.Messages.Remove(id)
	return nil
}
