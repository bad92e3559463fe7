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

// TaskInput is the mutable portion of a task.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Event       int
	User        int
}

// TaskService handles task CRUD and status transitions. Editing is an
// organizer affordance; whether the assignee may move their own task's
// status is configurable because no business rule pins it down.
type TaskService struct {
	api   *api.Client
	store *store.Store

	// AllowAssigneeStatusUpdate permits the assignee to change the status
	// of their own task even without the organizer role.
	AllowAssigneeStatusUpdate bool
}

// NewTaskService creates a new task service
func NewTaskService(client *api.Client, st *store.Store) *TaskService {
	return &TaskService{api: client, store: st}
}

// FetchForEvent loads the task collection of an event.
func (s *TaskService) FetchForEvent(ctx context.Context, eventID int) ([]models.Task, error) {
	gen := s.store.Tasks.Begin()
	var tasks []models.Task
	if err := s.api.Get(ctx, "/events/"+strconv.Itoa(eventID)+"/tasks/", true, &tasks); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Failed to fetch tasks")
		s.store.Tasks.Fail(gen, err.Error())
		return nil, fmt.Errorf("fetch tasks for event %d: %w", eventID, err)
	}
	s.store.Tasks.SetItems(gen, tasks)
	return tasks, nil
}

// FetchByID loads a single task into the store's single-entity slot.
func (s *TaskService) FetchByID(ctx context.Context, id int) (models.Task, error) {
	gen := s.store.Tasks.Begin()
	var task models.Task
	if err := s.api.Get(ctx, "/tasks/"+strconv.Itoa(id)+"/", true, &task); err != nil {
		log.Error().Err(err).Int("task_id", id).Msg("Failed to fetch task")
		s.store.Tasks.Fail(gen, err.Error())
		return models.Task{}, fmt.Errorf("fetch task %d: %w", id, err)
	}
	s.store.Tasks.SetItem(gen, task)
	return task, nil
}

// Create creates a task assigned to a user. Organizer affordance.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (models.Task, error) {
	if in.Title == "" || in.Event == 0 {
		return models.Task{}, fmt.Errorf("%w: title and event are required", ErrValidation)
	}
	if !s.store.IsOrganizer() {
		return models.Task{}, ErrNotPermitted
	}
	if in.Status == "" {
		in.Status = models.TaskNotStarted
	}
	gen := s.store.Tasks.Begin()
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"status":      in.Status,
		"event":       in.Event,
		"user":        in.User,
	}
	var created models.Task
	if err := s.api.Post(ctx, "/tasks/", true, body, &created); err != nil {
		log.Error().Err(err).Int("event_id", in.Event).Msg("Failed to create task")
		s.store.Tasks.Fail(gen, err.Error())
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.store.Tasks.Insert(created)
	log.Info().Int("task_id", created.ID).Int("event_id", created.Event).Msg("Task created")
	return created, nil
}

// Update patches a task's fields. Organizer affordance.
func (s *TaskService) Update(ctx context.Context, id int, in TaskInput) (models.Task, error) {
	if !s.store.IsOrganizer() {
		return models.Task{}, ErrNotPermitted
	}
	gen := s.store.Tasks.Begin()
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"status":      in.Status,
		"user":        in.User,
	}
	var updated models.Task
	if err := s.api.Patch(ctx, "/tasks/"+strconv.Itoa(id)+"/", true, body, &updated); err != nil {
		log.Error().Err(err).Int("task_id", id).Msg("Failed to update task")
		s.store.Tasks.Fail(gen, err.Error())
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	s.store.Tasks.Patch(updated)
	return updated, nil
}

// UpdateStatus moves a task through its lifecycle. Allowed for organizers,
// and for the assignee when AllowAssigneeStatusUpdate is set.
func (s *TaskService) UpdateStatus(ctx context.Context, id int, status models.TaskStatus) (models.Task, error) {
	if !s.mayUpdateStatus(id) {
		return models.Task{}, ErrNotPermitted
	}
	gen := s.store.Tasks.Begin()
	var updated models.Task
	body := map[string]any{"status": status}
	if err := s.api.Patch(ctx, "/tasks/"+strconv.Itoa(id)+"/", true, body, &updated); err != nil {
		log.Error().Err(err).Int("task_id", id).Str("status", string(status)).Msg("Failed to update task status")
		s.store.Tasks.Fail(gen, err.Error())
		return models.Task{}, fmt.Errorf("update task %d status: %w", id, err)
	}
	s.store.Tasks.Patch(updated)
	return updated, nil
}

func (s *TaskService) mayUpdateStatus(id int) bool {
	if s.store.IsOrganizer() {
		return true
	}
	if !s.AllowAssigneeStatusUpdate {
		return false
	}
	task, ok := s.store.Tasks.Get(id)
	return ok && task.User == s.store.Session.UserID()
}

// Delete removes a task. Organizer affordance.
func (s *TaskService) Delete(ctx context.Context, id int) error {
	if !s.store.IsOrganizer() {
		return ErrNotPermitted
	}
	gen := s.store.Tasks.Begin()
	if err := s.api.Delete(ctx, "/tasks/"+strconv.Itoa(id)+"/", true); err != nil {
		log.Error().Err(err).Int("task_id", id).Msg("Failed to delete task")
		s.store.Tasks.Fail(gen, err.Error())
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.store.Tasks.Remove(id)
	return nil
}
