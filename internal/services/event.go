package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// EventInput is the mutable portion of an event.
type EventInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Date        time.Time
}

func (in EventInput) fields() map[string]string {
	return map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"price":       strconv.FormatFloat(in.Price, 'f', 2, 64),
		"location":    in.Location,
		"date":        in.Date.Format(time.RFC3339),
	}
}

// EventService handles event listings and organizer mutations
type EventService struct {
	api   *api.Client
	store *store.Store
}

// NewEventService creates a new event service
func NewEventService(client *api.Client, st *store.Store) *EventService {
	return &EventService{api: client, store: st}
}

// FetchAll loads the public event listing.
func (s *EventService) FetchAll(ctx context.Context) ([]models.Event, error) {
	gen := s.store.Events.Begin()
	var events []models.Event
	if err := s.api.Get(ctx, "/events/", false, &events); err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		s.store.Events.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	s.store.Events.SetItems(gen, events)
	return events, nil
}

// FetchByID loads a single event into the store's single-entity slot.
func (s *EventService) FetchByID(ctx context.Context, id int) (models.Event, error) {
	gen := s.store.Events.Begin()
	var event models.Event
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(id)+"/", false, &event); err != nil {
		log.Error().Err(err).Int("event_id", id).Msg("Failed to fetch event")
		s.store.Events.Fail(gen, err.Error())
		return models.Event{}, fmt.Errorf("fetch event %d: %w", id, err)
	}
	s.store.Events.SetItem(gen, event)
	return event, nil
}

// FetchMine loads the current user's events; each carries the user's role.
func (s *EventService) FetchMine(ctx context.Context) ([]models.Event, error) {
	gen := s.store.Events.Begin()
	var events []models.Event
	if err := s.api.Get(ctx, "/me/events/", true, &events); err != nil {
		log.Error().Err(err).Msg("Failed to fetch user events")
		s.store.Events.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch user events: %w", err)
	}
	s.store.Events.SetItems(gen, events)
	return events, nil
}

// Create creates an event with an optional cover image and appends the
// server's canonical copy to the listing.
func (s *EventService) Create(ctx context.Context, in EventInput, image *api.FileField) (models.Event, error) {
	if in.Title == "" || in.Date.IsZero() {
		return models.Event{}, fmt.Errorf("%w: title and date are required", ErrValidation)
	}
	gen := s.store.Events.Begin()
	var created models.Event
	if err := s.api.PostForm(ctx, "/events/", true, in.fields(), image, &created); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("Failed to create event")
		s.store.Events.Fail(gen, err.Error())
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.store.Events.Insert(created)
	log.Info().Int("event_id", created.ID).Str("title", created.Title).Msg("Event created")
	return created, nil
}

// Update replaces an event and patches the listing in place.
func (s *EventService) Update(ctx context.Context, id int, in EventInput) (models.Event, error) {
	gen := s.store.Events.Begin()
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"price":       in.Price,
		"location":    in.Location,
		"date":        in.Date,
	}
	var updated models.Event
	if err := s.api.Put(ctx, "/events/"+strconv.Itoa(id)+"/", true, body, &updated); err != nil {
		log.Error().Err(err).Int("event_id", id).Msg("Failed to update event")
		s.store.Events.Fail(gen, err.Error())
		return models.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}
	s.store.Events.Patch(updated)
	return updated, nil
}

// Delete removes an event. Cascading deletion of its sub-resources is the
// server's responsibility; locally only the listing entry is dropped.
func (s *EventService) Delete(ctx context.Context, id int) error {
	gen := s.store.Events.Begin()
	if err := s.api.Delete(ctx, "/events/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("event_id", id).Msg("Failed to delete event")
		s.store.Events.Fail(gen, err.Error())
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	s.store.Events.Remove(id)
	log.Info().Int("event_id", id).Msg("Event deleted")
	return nil
}
