package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

const (
	codeLength = 26
	codeChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrEventClosed is returned when buying a ticket for an event whose date
// has already passed.
var ErrEventClosed = fmt.Errorf("event is no longer open for tickets")

// TicketService handles ticket purchase, listing and cancellation
type TicketService struct {
	api   *api.Client
	store *store.Store
}

// NewTicketService creates a new ticket service
func NewTicketService(client *api.Client, st *store.Store) *TicketService {
	return &TicketService{api: client, store: st}
}

// FetchForEvent loads the ticket collection of an event.
func (s *TicketService) FetchForEvent(ctx context.Context, eventID int) ([]models.Ticket, error) {
	gen := s.store.Tickets.Begin()
	var tickets []models.Ticket
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(eventID)+"/tickets/", true, &tickets); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to fetch tickets")
		s.store.Tickets.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch tickets for event %d: %w", eventID, err)
	}
	s.store.Tickets.SetItems(gen, tickets)
	return tickets, nil
}

// FetchForUser loads a user's tickets with the denormalized event fields
// the listing view renders.
func (s *TicketService) FetchForUser(ctx context.Context, userID int) ([]models.Ticket, error) {
	gen := s.store.Tickets.Begin()
	var tickets []models.Ticket
	if err := s.api.Get(ctx, "/users/"+strconv.Itoa(userID)+"/tickets/", true, &tickets); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Failed to fetch user tickets")
		s.store.Tickets.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch tickets for user %d: %w", userID, err)
	}
	s.store.Tickets.SetItems(gen, tickets)
	return tickets, nil
}

// FetchByID loads a single ticket.
func (s *TicketService) FetchByID(ctx context.Context, id int) (models.Ticket, error) {
	gen := s.store.Tickets.Begin()
	var ticket models.Ticket
	if err := s.api.Get(ctx, "/tickets/"+strconv.Itoa(id)+"/", true, &ticket); err != nil {
		log.Error().Err(err).Int("ticket_id", id).Msg("Failed to fetch ticket")
		s.store.Tickets.Fail(gen, err.Error())
		return models.Ticket{}, fmt.Errorf("fetch ticket %d: %w", id, err)
	}
	s.store.Tickets.SetItem(gen, ticket)
	return ticket, nil
}

// Purchase buys a ticket for the current user with a freshly generated code.
// The event must still be open; the server is trusted to reject a colliding
// code.
func (s *TicketService) Purchase(ctx context.Context, event models.Event) (models.Ticket, error) {
	userID := s.store.Session.UserID()
	if userID == 0 {
		return models.Ticket{}, api.ErrUnauthenticated
	}
	if !event.Open(time.Now()) {
		return models.Ticket{}, ErrEventClosed
	}
	gen := s.store.Tickets.Begin()
	body := map[string]any{
		"event": event.ID,
		"user":  userID,
		"code":  GenerateCode(),
	}
	var created models.Ticket
	if err := s.api.Post(ctx, "/tickets/", true, body, &created); err != nil {
		log.Error().Err(err).Int("event_id", event.ID).Msg("Failed to purchase ticket")
		s.store.Tickets.Fail(gen, err.Error())
		return models.Ticket{}, fmt.Errorf("purchase ticket for event %d: %w", event.ID, err)
	}
	s.store.Tickets.Insert(created)
	log.Info().Int("ticket_id", created.ID).Int("event_id", event.ID).Msg("Ticket purchased")
	return created, nil
}

// Cancel deletes a ticket owned by the current user.
func (s *TicketService) Cancel(ctx context.Context, id int) error {
	gen := s.store.Tickets.Begin()
	if err := s.api.Delete(ctx, "/tickets/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("ticket_id", id).Msg("Failed to cancel ticket")
		s.store.Tickets.Fail(gen, err.Error())
		return fmt.Errorf("cancel ticket %d: %w", id, err)
	}
	s.store.Tickets.Remove(id)
	log.Info().Int("ticket_id", id).Msg("Ticket cancelled")
	return nil
}

// GenerateCode generates a random alphanumeric ticket code.
func GenerateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		code[i] = codeChars[n.Int64()]
	}
	return string(code)
}
