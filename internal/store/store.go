// Package store holds the client-side snapshot of every resource collection
// together with its asynchronous operation status. It is the single shared
// mutable structure of the client; views subscribe to it and re-render on
// change, the gateway services write to it after each server round trip.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/authz"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
)

// Status is the lifecycle state of the last operation on a resource kind.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Resource kinds used in change notifications.
const (
	KindSession     = "session"
	KindEvents      = "events"
	KindTasks       = "tasks"
	KindTeams       = "teams"
	KindBudgetItems = "budget_items"
	KindTickets     = "tickets"
	KindMessages    = "messages"
)

// Entity is anything addressable by a numeric server-assigned id.
type Entity interface {
	GetID() int
}

// Resource is one named collection: a list, a single-entity slot and the
// status/error of the most recent operation against it. Fetch completions
// carry the generation token handed out by Begin; a completion whose
// generation has been superseded by a newer Begin is discarded, so a slow
// earlier fetch can never overwrite a later one's data.
type Resource[T Entity] struct {
	kind   string
	notify func(kind string)

	mu     sync.Mutex
	items  []T
	item   *T
	status Status
	err    string
	gen    uint64
}

func newResource[T Entity](kind string, notify func(string)) *Resource[T] {
	return &Resource[T]{kind: kind, notify: notify, status: StatusIdle}
}

// Begin marks the resource loading and returns the generation token the
// operation must present on completion. Existing data is kept so views can
// keep rendering stale content while revalidating.
func (r *Resource[T]) Begin() uint64 {
	r.mu.Lock()
	r.status = StatusLoading
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.notify(r.kind)
	return gen
}

// SetItems replaces the list with the fetched collection. Returns false if
// the generation was superseded and the result was discarded.
func (r *Resource[T]) SetItems(gen uint64, items []T) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	r.items = items
	r.status = StatusSucceeded
	r.err = ""
	r.mu.Unlock()
	r.notify(r.kind)
	return true
}

// SetItem replaces the single-entity slot with the fetched entity. Returns
// false if the generation was superseded and the result was discarded.
func (r *Resource[T]) SetItem(gen uint64, item T) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	r.item = &item
	r.status = StatusSucceeded
	r.err = ""
	r.mu.Unlock()
	r.notify(r.kind)
	return true
}

// Fail records the operation failure. Data is left as last known. Returns
// false if the generation was superseded and the failure was discarded.
func (r *Resource[T]) Fail(gen uint64, msg string) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	r.status = StatusFailed
	r.err = msg
	r.mu.Unlock()
	r.notify(r.kind)
	return true
}

// Insert appends a server-confirmed entity to the list, used after create.
func (r *Resource[T]) Insert(item T) {
	r.mu.Lock()
	r.items = append(r.items, item)
	r.status = StatusSucceeded
	r.err = ""
	r.mu.Unlock()
	r.notify(r.kind)
}

// Patch replaces the list element with the same id. No-op when the id is
// absent from the collection.
func (r *Resource[T]) Patch(item T) bool {
	r.mu.Lock()
	found := false
	for i := range r.items {
		if r.items[i].GetID() == item.GetID() {
			r.items[i] = item
			found = true
			break
		}
	}
	r.status = StatusSucceeded
	r.err = ""
	r.mu.Unlock()
	r.notify(r.kind)
	return found
}

// Remove filters the element with the given id out of the list.
func (r *Resource[T]) Remove(id int) bool {
	r.mu.Lock()
	found := false
	kept := r.items[:0]
	for _, it := range r.items {
		if it.GetID() == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	r.items = kept
	r.status = StatusSucceeded
	r.err = ""
	r.mu.Unlock()
	r.notify(r.kind)
	return found
}

// Sort reorders the list in place by the given comparison.
func (r *Resource[T]) Sort(less func(a, b T) bool) {
	r.mu.Lock()
	sort.SliceStable(r.items, func(i, j int) bool { return less(r.items[i], r.items[j]) })
	r.mu.Unlock()
	r.notify(r.kind)
}

// Items returns a copy of the current list.
func (r *Resource[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Item returns the single-entity slot, if populated.
func (r *Resource[T]) Item() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.item == nil {
		var zero T
		return zero, false
	}
	return *r.item, true
}

// Get returns the list element with the given id, if present.
func (r *Resource[T]) Get(id int) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the current list length.
func (r *Resource[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Status returns the status of the most recent operation on this kind.
func (r *Resource[T]) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err returns the error message recorded by the last failed operation.
func (r *Resource[T]) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// SessionState holds the authenticated user and bearer token. It is written
// only by login, registration and logout; every authenticated gateway call
// reads the token from it.
type SessionState struct {
	notify func(kind string)

	mu     sync.Mutex
	user   *models.User
	token  string
	expiry time.Time
	status Status
	err    string
	gen    uint64
}

// Begin marks the session loading and returns a generation token.
func (s *SessionState) Begin() uint64 {
	s.mu.Lock()
	s.status = StatusLoading
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.notify(KindSession)
	return gen
}

// Set installs the authenticated user and bearer token.
func (s *SessionState) Set(gen uint64, user models.User, token string, expiry time.Time) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.user = &user
	s.token = token
	s.expiry = expiry
	s.status = StatusSucceeded
	s.err = ""
	s.mu.Unlock()
	s.notify(KindSession)
	return true
}

// Succeed marks the session operation succeeded without touching the held
// session. Used by flows like registration that complete without logging in.
func (s *SessionState) Succeed(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.status = StatusSucceeded
	s.err = ""
	s.mu.Unlock()
	s.notify(KindSession)
	return true
}

// Fail records an authentication failure. Any previous session is kept.
func (s *SessionState) Fail(gen uint64, msg string) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.status = StatusFailed
	s.err = msg
	s.mu.Unlock()
	s.notify(KindSession)
	return true
}

// SetUser replaces the profile, keeping the token. Used after profile update.
func (s *SessionState) SetUser(user models.User) {
	s.mu.Lock()
	s.user = &user
	s.status = StatusSucceeded
	s.err = ""
	s.mu.Unlock()
	s.notify(KindSession)
}

// Clear destroys the session, returning the state to idle. Used on logout
// and account deletion.
func (s *SessionState) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.expiry = time.Time{}
	s.status = StatusIdle
	s.err = ""
	s.gen++
	s.mu.Unlock()
	s.notify(KindSession)
}

// Token returns the bearer token, or "" when unauthenticated or expired.
func (s *SessionState) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ""
	}
	if !s.expiry.IsZero() && time.Now().After(s.expiry) {
		return ""
	}
	return s.token
}

// User returns the authenticated profile, if any.
func (s *SessionState) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// UserID returns the authenticated user id, or 0.
func (s *SessionState) UserID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Authenticated reports whether a usable bearer token is held.
func (s *SessionState) Authenticated() bool { return s.Token() != "" }

// Status returns the status of the most recent session operation.
func (s *SessionState) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error message recorded by the last failed session operation.
func (s *SessionState) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Store aggregates one resource per kind plus the session. A single Store is
// constructed at startup and injected into every service; it is safe for
// concurrent use by independently dispatched operations.
type Store struct {
	Session     *SessionState
	Events      *Resource[models.Event]
	Tasks       *Resource[models.Task]
	Teams       *Resource[models.Team]
	BudgetItems *Resource[models.BudgetItem]
	Tickets     *Resource[models.Ticket]
	Messages    *Resource[models.Message]

	subMu   sync.Mutex
	subs    map[int]func(kind string)
	nextSub int
}

// New creates an empty store with every kind idle.
func New() *Store {
	s := &Store{subs: make(map[int]func(string))}
	s.Session = &SessionState{notify: s.publish, status: StatusIdle}
	s.Events = newResource[models.Event](KindEvents, s.publish)
	s.Tasks = newResource[models.Task](KindTasks, s.publish)
	s.Teams = newResource[models.Team](KindTeams, s.publish)
	s.BudgetItems = newResource[models.BudgetItem](KindBudgetItems, s.publish)
	s.Tickets = newResource[models.Ticket](KindTickets, s.publish)
	s.Messages = newResource[models.Message](KindMessages, s.publish)
	return s
}

// Subscribe registers a change listener invoked with the kind that changed.
// The returned function removes the listener.
func (s *Store) Subscribe(fn func(kind string)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(kind string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(kind)
	}
}

// IsOrganizer derives whether the current session user holds the organizer
// role in the loaded team collection. Recomputed on every read, so it is
// always consistent with the latest teams and session state. Presentation
// only; the server re-checks every mutation.
func (s *Store) IsOrganizer() bool {
	return authz.IsOrganizer(s.Teams.Items(), s.Session.UserID())
}

// BudgetTotal sums the loaded budget item amounts.
func (s *Store) BudgetTotal() float64 {
	var total float64
	for _, item := range s.BudgetItems.Items() {
		total += item.Amount
	}
	return total
}
