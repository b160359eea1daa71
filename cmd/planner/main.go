package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/aboutorca/WeatherNavApp/internal/adapters/nats"
	"github.com/aboutorca/WeatherNavApp/internal/app"
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/config"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/logging"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/telemetry"
	"github.com/aboutorca/WeatherNavApp/internal/workflows"
)

func main() {
	cfg, err := config.Load("weathernav-planner")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("weathernav-planner", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	infra := app.Connect(ctx, cfg)
	defer infra.Close()

	services := app.NewServices(cfg, app.NewProviders(cfg), infra)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	activities := &workflows.PlanActivities{
		Routes:  services.Routes,
		Weather: services.Weather,
	}
	if infra.Events != nil {
		activities.Events = infra.Events
	}
	w.RegisterWorkflow(workflows.PlanTripWorkflow)
	w.RegisterActivity(activities)

	// Trip requests from the API become workflow executions
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeTripRequested(ctx, func(ctx context.Context, event *domain.TripRequestedEvent) error {
		slog.Info("trip requested", "trip_id", event.TripID)
		return workflows.StartPlanTrip(ctx, c, cfg.Temporal.TaskQueue, event)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("planner worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
