package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/chat"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/config"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/services"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

func main() {
	// .env is optional; real env wins either way
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout(), st.Session, log.Logger)

	auth := services.NewAuthService(client, st)
	events := services.NewEventService(client, st)
	tasks := services.NewTaskService(client, st)
	teams := services.NewTeamService(client, st)
	budget := services.NewBudgetService(client, st)
	tickets := services.NewTicketService(client, st)
	messages := services.NewMessageService(client, st)

	switch flag.Arg(0) {
	case "events":
		listEvents(ctx, events)
	case "mine":
		login(ctx, auth)
		listMine(ctx, events)
	case "invitations":
		login(ctx, auth)
		listInvitations(ctx, teams)
	case "tickets":
		login(ctx, auth)
		listTickets(ctx, st, tickets)
	case "workspace":
		id, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal().Msg("Usage: eventplanner workspace <event-id>")
		}
		login(ctx, auth)
		showWorkspace(ctx, id, st, events, tasks, teams, budget, messages)
	default:
		fmt.Fprintln(os.Stderr, "Usage: eventplanner [events|mine|invitations|tickets|workspace <id>]")
		os.Exit(2)
	}
}

// login authenticates with credentials from the environment.
func login(ctx context.Context, auth *services.AuthService) {
	username := os.Getenv("EVENTPLANNER_USERNAME")
	password := os.Getenv("EVENTPLANNER_PASSWORD")
	if err := auth.Login(ctx, username, password); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
}

func listEvents(ctx context.Context, events *services.EventService) {
	list, err := events.FetchAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch events")
	}
	for _, e := range list {
		fmt.Printf("%4d  %-30s  %s  %s\n", e.ID, e.Title, e.Date.Format("2006-01-02"), e.Location)
	}
}

func listMine(ctx context.Context, events *services.EventService) {
	list, err := events.FetchMine(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch user events")
	}
	for _, e := range list {
		fmt.Printf("%4d  %-30s  %-11s  %s\n", e.ID, e.Title, e.Role, e.Date.Format("2006-01-02"))
	}
}

func listInvitations(ctx context.Context, teams *services.TeamService) {
	pending, err := teams.FetchPending(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch pending invitations")
	}
	if len(pending) == 0 {
		fmt.Println("No pending invitations")
		return
	}
	for _, t := range pending {
		fmt.Printf("%4d  %-30s  role=%s\n", t.ID, t.EventTitle, t.Role)
	}
}

func listTickets(ctx context.Context, st *store.Store, tickets *services.TicketService) {
	list, err := tickets.FetchForUser(ctx, st.Session.UserID())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch tickets")
	}
	for _, t := range list {
		fmt.Printf("%4d  %-30s  %s  code=%s\n", t.ID, t.EventTitle, t.EventDate.Format("2006-01-02"), t.Code)
	}
}

// showWorkspace mirrors the workspace view mount: the event and each of its
// sub-collections are fetched in parallel, each transitioning its own status
// independently.
func showWorkspace(
	ctx context.Context,
	eventID int,
	st *store.Store,
	events *services.EventService,
	tasks *services.TaskService,
	teams *services.TeamService,
	budget *services.BudgetService,
	messages *services.MessageService,
) {
	feed := chat.NewFeed(messages, st, eventID)

	var wg sync.WaitGroup
	fetches := []func() error{
		func() error { _, err := events.FetchByID(ctx, eventID); return err },
		func() error { _, err := tasks.FetchForEvent(ctx, eventID); return err },
		func() error { _, err := teams.FetchForEvent(ctx, eventID); return err },
		func() error { _, err := budget.FetchForEvent(ctx, eventID); return err },
		func() error { return feed.Open(ctx) },
	}
	for _, fetch := range fetches {
		wg.Add(1)
		go func(fetch func() error) {
			defer wg.Done()
			if err := fetch(); err != nil {
				log.Error().Err(err).Int("event_id", eventID).Msg("Workspace fetch failed")
			}
		}(fetch)
	}
	wg.Wait()

	event, ok := st.Events.Item()
	if !ok {
		log.Fatal().Int("event_id", eventID).Msg("Event not loaded")
	}

	fmt.Printf("%s — %s @ %s\n", event.Title, event.Date.Format("2006-01-02 15:04"), event.Location)
	fmt.Printf("organizer view: %v\n\n", st.IsOrganizer())

	fmt.Printf("Tasks (%d):\n", st.Tasks.Len())
	for _, t := range st.Tasks.Items() {
		fmt.Printf("  [%-11s] %-30s → %s\n", t.Status, t.Title, t.Username)
	}

	fmt.Printf("\nTeam (%d):\n", st.Teams.Len())
	for _, t := range st.Teams.Items() {
		status := "pending"
		if t.InvitationStatus {
			status = "accepted"
		}
		fmt.Printf("  %-20s %-11s %s\n", t.Username, t.Role, status)
	}

	fmt.Printf("\nBudget total: %.2f\n", st.BudgetTotal())
	for _, b := range st.BudgetItems.Items() {
		fmt.Printf("  %-30s %10.2f\n", b.Title, b.Amount)
	}

	msgs := feed.Messages()
	fmt.Printf("\nMessages (%d):\n", len(msgs))
	for _, m := range msgs {
		fmt.Printf("  %s %s: %s\n", m.CreatedAt.Format("15:04"), m.SenderUsername, m.Content)
	}
}

// setupLogger configures zerolog
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
