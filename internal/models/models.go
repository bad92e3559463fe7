package models

import "time"

// Team roles. Organizers may mutate an event and its sub-resources;
// participants may view and chat.
const (
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// User represents a registered user profile
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image,omitempty"`
}

// GetID returns the user id
func (u User) GetID() int { return u.ID }

// Event is the top-level plannable entity owning tasks, budget, team,
// tickets and messages. Role is only present in user-scoped listings.
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Role        string    `json:"role,omitempty"`
}

// GetID returns the event id
func (e Event) GetID() int { return e.ID }

// Open reports whether the event is still in the future and tickets can be
// purchased for it.
func (e Event) Open(now time.Time) bool { return e.Date.After(now) }

// Task is a unit of work tracked against an event and assigned to a user.
// Username is the denormalized display name of the assignee.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Event       int        `json:"event"`
	User        int        `json:"user"`
	Username    string     `json:"username,omitempty"`
}

// GetID returns the task id
func (t Task) GetID() int { return t.ID }

// Team is a membership/invitation record associating a user to an event.
// A record starts with InvitationStatus false (pending) and flips to true
// on acceptance. The (Event, User) pair is unique per the server.
type Team struct {
	ID               int    `json:"id"`
	Event            int    `json:"event"`
	User             int    `json:"user"`
	Username         string `json:"username"`
	Image            string `json:"image,omitempty"`
	Role             string `json:"role"`
	InvitationStatus bool   `json:"invitation_status"`

	// Denormalized event fields returned by the pending-invitations listing.
	EventTitle string `json:"event_title,omitempty"`
	EventImage string `json:"event_image,omitempty"`
}

// GetID returns the team record id
func (t Team) GetID() int { return t.ID }

// BudgetItem is a single line-item expense tracked against an event
type BudgetItem struct {
	ID          int     `json:"id"`
	Event       int     `json:"event"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// GetID returns the budget item id
func (b BudgetItem) GetID() int { return b.ID }

// Ticket is a purchase record granting a user attendance to an event.
// The event_* fields are denormalized by the server for listing views.
type Ticket struct {
	ID            int       `json:"id"`
	Event         int       `json:"event"`
	User          int       `json:"user"`
	Code          string    `json:"code"`
	EventTitle    string    `json:"event_title,omitempty"`
	EventDate     time.Time `json:"event_date,omitzero"`
	EventLocation string    `json:"event_location,omitempty"`
	EventPrice    float64   `json:"event_price,omitempty"`
}

// GetID returns the ticket id
func (t Ticket) GetID() int { return t.ID }

// Message is a chat entry in an event's feed, ordered by CreatedAt.
// Image is an optional attachment reference resolved by the server.
type Message struct {
	ID             int       `json:"id"`
	Event          int       `json:"event"`
	Sender         int       `json:"sender"`
	SenderUsername string    `json:"sender_username,omitempty"`
	SenderImage    string    `json:"sender_image,omitempty"`
	Content        string    `json:"content"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetID returns the message id
func (m Message) GetID() int { return m.ID }
