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

// TeamService handles memberships and the invitation lifecycle: an organizer
// invites a username (pending record), the invitee accepts or rejects, and
// organizers may remove members.
type TeamService struct {
	api   *api.Client
	store *store.Store
}

// NewTeamService creates a new team service
func NewTeamService(client *api.Client, st *store.Store) *TeamService {
	return &TeamService{api: client, store: st}
}

// FetchForEvent loads the membership collection of an event.
func (s *TeamService) FetchForEvent(ctx context.Context, eventID int) ([]models.Team, error) {
	gen := s.store.Teams.Begin()
	var teams []models.Team
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(eventID)+"/teams/", true, &teams); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to fetch teams")
		s.store.Teams.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch teams for event %d: %w", eventID, err)
	}
	s.store.Teams.SetItems(gen, teams)
	return teams, nil
}

// FetchByID loads a single membership record.
func (s *TeamService) FetchByID(ctx context.Context, id int) (models.Team, error) {
	gen := s.store.Teams.Begin()
	var team models.Team
	if err := s.api.Get(ctx, "/teams/"+strconv.Itoa(id)+"/", true, &team); err != nil {
		log.Error().Err(err).Int("team_id", id).Msg("Failed to fetch team record")
		s.store.Teams.Fail(gen, err.Error())
		return models.Team{}, fmt.Errorf("fetch team %d: %w", id, err)
	}
	s.store.Teams.SetItem(gen, team)
	return team, nil
}

// FetchPending loads the current user's pending invitations.
func (s *TeamService) FetchPending(ctx context.Context) ([]models.Team, error) {
	gen := s.store.Teams.Begin()
	var teams []models.Team
	if err := s.api.Get(ctx, "/me/teams/pending/", true, &teams); err != nil {
		log.Error().Err(err).Msg("Failed to fetch pending invitations")
		s.store.Teams.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch pending invitations: %w", err)
	}
	s.store.Teams.SetItems(gen, teams)
	return teams, nil
}

// Invite creates a pending membership for the given username. Organizer
// affordance.
func (s *TeamService) Invite(ctx context.Context, eventID int, username string) (models.Team, error) {
	if username == "" {
		return models.Team{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !s.store.IsOrganizer() {
		return models.Team{}, ErrNotPermitted
	}
	gen := s.store.Teams.Begin()
	body := map[string]any{"event": eventID, "username": username}
	var created models.Team
	if err := s.api.Post(ctx, "/teams/", true, body, &created); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Str("username", username).Msg("Failed to invite member")
		s.store.Teams.Fail(gen, err.Error())
		return models.Team{}, fmt.Errorf("invite %q: %w", username, err)
	}
	s.store.Teams.Insert(created)
	log.Info().Int("team_id", created.ID).Int("event_id", eventID).Str("username", username).Msg("Member invited")
	return created, nil
}

// Accept marks an invitation accepted, then refetches the pending view so
// the record drops out of it. The refetch mirrors the source behavior
// instead of patching locally.
func (s *TeamService) Accept(ctx context.Context, id int) error {
	gen := s.store.Teams.Begin()
	body := map[string]any{"invitation_status": true}
	var updated models.Team
	if err := s.api.Patch(ctx, "/teams/"+strconv.Itoa(id)+"/", true, body, &updated); err != nil {
		log.Error().Err(err).Int("team_id", id).Msg("Failed to accept invitation")
		s.store.Teams.Fail(gen, err.Error())
		return fmt.Errorf("accept invitation %d: %w", id, err)
	}
	log.Info().Int("team_id", id).Msg("Invitation accepted")
	if _, err := s.FetchPending(ctx); err != nil {
		return err
	}
	return nil
}

// Reject deletes a pending invitation, then refetches the pending view.
func (s *TeamService) Reject(ctx context.Context, id int) error {
	gen := s.store.Teams.Begin()
	if err := s.api.Delete(ctx, "/teams/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("team_id", id).Msg("Failed to reject invitation")
		s.store.Teams.Fail(gen, err.Error())
		return fmt.Errorf("reject invitation %d: %w", id, err)
	}
	log.Info().Int("team_id", id).Msg("Invitation rejected")
	if _, err := s.FetchPending(ctx); err != nil {
		return err
	}
	return nil
}

// Remove deletes a membership from an event's team and filters it out of
// the loaded collection. Organizer affordance.
func (s *TeamService) Remove(ctx context.Context, id int) error {
	if !s.store.IsOrganizer() {
		return ErrNotPermitted
	}
	gen := s.store.Teams.Begin()
	if err := s.api.Delete(ctx, "/teams/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("team_id", id).Msg("Failed to remove member")
		s.store.Teams.Fail(gen, err.Error())
		return fmt.Errorf("remove member %d: %w", id, err)
	}
	s.store.Teams.Remove(id)
	return nil
}
