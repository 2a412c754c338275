package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"eventhound/internal/app/events"
	"eventhound/internal/app/feed"
	"eventhound/internal/store"
	"eventhound/internal/ticketapi"
	"eventhound/shared/go/config"
	"eventhound/shared/go/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err, "Database unavailable")
	}
	defer db.Close()

	// Explicit object graph, composed once at process start.
	dataStore := store.New(db)
	client := ticketapi.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.PageSize)
	eventsSvc := events.New(client, dataStore)
	getEvents := events.NewGetEventsUseCase(eventsSvc)
	controller := feed.New(getEvents,
		feed.WithSettings(dataStore),
		feed.WithDefaultCity(cfg.DefaultCity),
		feed.WithKeepAlive(cfg.FeedKeepAlive),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Component("main").With().Str("session", uuid.New().String()).Logger()

	states, cancel := controller.Subscribe(ctx)
	defer cancel()
	controller.Start(ctx)

	log.Info().Str("city", controller.SelectedCity()).Msg("Event feed started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return
		case s := <-states:
			logState(log, controller, s)
		}
	}
}

// logState renders each published feed state; this binary is a console
// consumer of the feed, not a served API.
func logState(log zerolog.Logger, controller *feed.Controller, s feed.State) {
	switch s.Kind {
	case feed.StateLoading:
		log.Info().Msg("Loading events...")
	case feed.StateEmpty:
		log.Info().Str("error", controller.ErrorMessage()).Msg("No events to show")
	case feed.StateEventsLoaded:
		log.Info().
			Int("events", len(s.Events)).
			Bool("loading_more", s.IsLoadingMore).
			Msg("Events loaded")
		for _, e := range s.Events {
			entry := log.Info().Str("id", e.ID).Str("name", e.Name)
			if d := e.FormattedStartDate(); d != nil {
				entry = entry.Str("date", *d)
			}
			if e.Location != nil {
				entry = entry.Str("location", *e.Location)
			}
			entry.Msg("Event")
		}
	case feed.StateActionCompleted:
		log.Info().Str("action_id", s.ActionID).Msg("Action completed")
	}
}
