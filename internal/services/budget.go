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

// BudgetItemInput is the mutable portion of a budget item.
type BudgetItemInput struct {
	Title       string
	Description string
	Amount      float64
	Event       int
}

// BudgetService handles budget line items. All mutations are organizer
// affordances.
type BudgetService struct {
	api   *api.Client
	store *store.Store
}

// NewBudgetService creates a new budget service
func NewBudgetService(client *api.Client, st *store.Store) *BudgetService {
	return &BudgetService{api: client, store: st}
}

// FetchForEvent loads the budget item collection of an event.
func (s *BudgetService) FetchForEvent(ctx context.Context, eventID int) ([]models.BudgetItem, error) {
	gen := s.store.BudgetItems.Begin()
	var items []models.BudgetItem
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(eventID)+"/budgetitems/", true, &items); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to fetch budget items")
		s.store.BudgetItems.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch budget items for event %d: %w", eventID, err)
	}
	s.store.BudgetItems.SetItems(gen, items)
	return items, nil
}

// FetchByID loads a single budget item.
func (s *BudgetService) FetchByID(ctx context.Context, id int) (models.BudgetItem, error) {
	gen := s.store.BudgetItems.Begin()
	var item models.BudgetItem
	if err := s.api.Get(ctx, "/budgetitems/"+strconv.Itoa(id)+"/", true, &item); err != nil {
		log.Error().Err(err).Int("budget_item_id", id).Msg("Failed to fetch budget item")
		s.store.BudgetItems.Fail(gen, err.Error())
		return models.BudgetItem{}, fmt.Errorf("fetch budget item %d: %w", id, err)
	}
	s.store.BudgetItems.SetItem(gen, item)
	return item, nil
}

// Create adds a line item and appends the server's canonical copy.
func (s *BudgetService) Create(ctx context.Context, in BudgetItemInput) (models.BudgetItem, error) {
	if in.Title == "" || in.Event == 0 {
		return models.BudgetItem{}, fmt.Errorf("%w: title and event are required", ErrValidation)
	}
	if !s.store.IsOrganizer() {
		return models.BudgetItem{}, ErrNotPermitted
	}
	gen := s.store.BudgetItems.Begin()
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"amount":      in.Amount,
		"event":       in.Event,
	}
	var created models.BudgetItem
	if err := s.api.Post(ctx, "/budgetitems/", true, body, &created); err != nil {
		log.Error().Err(err).Int("event_id", in.Event).Msg("Failed to create budget item")
		s.store.BudgetItems.Fail(gen, err.Error())
		return models.BudgetItem{}, fmt.Errorf("create budget item: %w", err)
	}
	s.store.BudgetItems.Insert(created)
	return created, nil
}

// Update patches a line item in place.
func (s *BudgetService) Update(ctx context.Context, id int, in BudgetItemInput) (models.BudgetItem, error) {
	if !s.store.IsOrganizer() {
		return models.BudgetItem{}, ErrNotPermitted
	}
	gen := s.store.BudgetItems.Begin()
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"amount":      in.Amount,
	}
	var updated models.BudgetItem
	if err := s.api.Patch(ctx, "/budgetitems/"+strconv.Itoa(id)+"/", true, body, &updated); err != nil {
		log.Error().Err(err).Int("budget_item_id", id).Msg("Failed to update budget item")
		s.store.BudgetItems.Fail(gen, err.Error())
		return models.BudgetItem{}, fmt.Errorf("update budget item %d: %w", id, err)
	}
	s.store.BudgetItems.Patch(updated)
	return updated, nil
}

// Delete removes a line item, then refetches the whole collection for the
// event rather than filtering locally. The refetch mirrors the source
// behavior.
func (s *BudgetService) Delete(ctx context.Context, id, eventID int) error {
	if !s.store.IsOrganizer() {
		return ErrNotPermitted
	}
	gen := s.store.BudgetItems.Begin()
	if err := s.api.Delete(ctx, "/budgetitems/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("budget_item_id", id).Msg("Failed to delete budget item")
		s.store.BudgetItems.Fail(gen, err.Error())
		return fmt.Errorf("delete budget item %d: %w", id, err)
	}
	log.Info().Int("budget_item_id", id).Int("event_id", eventID).Msg("Budget item deleted")
	if _, err := s.FetchForEvent(ctx, eventID); err != nil {
		return err
	}
	return nil
}

// Total sums the loaded budget item amounts.
func (s *BudgetService) Total() float64 {
	return s.store.BudgetTotal()
}
