package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
)

// PlanTripInput is the input for the trip planning workflow.
type PlanTripInput struct {
	TripID        string
	Origin        domain.Location
	Destination   domain.Location
	DepartureTime time.Time
	Alternatives  bool
	Forecast      bool
}

// PlanTripInputFrom converts a broker request into workflow input.
func PlanTripInputFrom(e *domain.TripRequestedEvent) PlanTripInput {
	return PlanTripInput{
		TripID:        e.TripID,
		Origin:        e.Origin,
		Destination:   e.Destination,
		DepartureTime: e.DepartureTime,
		Alternatives:  e.Alternatives,
		Forecast:      e.Forecast,
	}
}

// PlanTripWorkflow resolves a route, fetches weather along it and publishes
// the finished plan. Sampling, segmenting and summarizing are pure and run
// inside the workflow; only provider calls are activities.
func PlanTripWorkflow(ctx workflow.Context, input PlanTripInput) (*domain.TripPlan, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting trip planning workflow", "tripID", input.TripID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	departure := input.DepartureTime
	if departure.IsZero() {
		departure = workflow.Now(ctx).UTC()
	}

	// Step 1: Resolve route
	var routes []domain.Route
	if err := workflow.ExecuteActivity(ctx, "ResolveRoute", input).Get(ctx, &routes); err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, temporal.NewNonRetryableApplicationError("no route", "NotFound", domain.ErrNotFound)
	}
	route := routes[0]

	samples, err := tripweather.Sample(route.Geometry, route.Distance, route.Duration)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidRoute", err)
	}

	// Step 2: Weather along the route
	var readings []domain.WeatherReading
	err = workflow.ExecuteActivity(ctx, "FetchWeather", FetchWeatherInput{
		RouteID:   route.ID,
		Samples:   samples,
		Departure: departure,
		Forecast:  input.Forecast,
	}).Get(ctx, &readings)
	if err != nil {
		return nil, err
	}

	assembled, err := tripweather.Assemble(route, samples, readings)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidWeather", err)
	}
	plan := &assembled
	plan.ID = input.TripID
	plan.DepartureTime = departure
	plan.Alternatives = routes[1:]
	plan.PlannedAt = workflow.Now(ctx).UTC()

	// Step 3: Publish, best effort
	if err := workflow.ExecuteActivity(ctx, "PublishPlan", plan).Get(ctx, nil); err != nil {
		logger.Warn("publish plan failed", "tripID", plan.ID, "error", err)
	}

	logger.Info("Trip planned", "tripID", plan.ID, "worst", plan.Summary.WorstSeverity.String())
	return plan, nil
}

// WorkflowID is the Temporal workflow id for a trip. Redelivered requests
// map to the same id, so a trip is planned at most once at a time.
func WorkflowID(tripID string) string {
	return "plan-trip-" + tripID
}

// StartPlanTrip starts PlanTripWorkflow for a requested trip.
func StartPlanTrip(ctx context.Context, c client.Client, taskQueue string, event *domain.TripRequestedEvent) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(event.TripID),
		TaskQueue: taskQueue,
	}
	if _, err := c.ExecuteWorkflow(ctx, opts, PlanTripWorkflow, PlanTripInputFrom(event)); err != nil {
		return fmt.Errorf("start workflow %s: %w", opts.ID, err)
	}
	return nil
}
