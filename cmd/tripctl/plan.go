package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aboutorca/WeatherNavApp/internal/app"
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/config"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/units"
)

type planOptions struct {
	from, to  string
	depart    string
	forecast  bool
	asJSON    bool
	celsius   bool
	timeout   time.Duration
}

func newPlanCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip and print the weather along the route",
		Example: `  tripctl plan --from "Bilbao" --to "Madrid"
  tripctl plan --from 43.263,-2.935 --to 40.4168,-3.7038 --forecast --depart 2026-11-02T08:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("tripctl")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runPlan(ctx, cmd.OutOrStdout(), app.NewServices(cfg, app.NewProviders(cfg), nil), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", `origin address or "lat,lng"`)
	f.StringVar(&opts.to, "to", "", `destination address or "lat,lng"`)
	f.StringVar(&opts.depart, "depart", "", "departure time, RFC 3339 (default now)")
	f.BoolVar(&opts.forecast, "forecast", false, "use forecasts at each arrival time")
	f.BoolVar(&opts.asJSON, "json", false, "print the full plan as JSON")
	f.BoolVar(&opts.celsius, "celsius", false, "show temperatures in °C")
	f.DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall deadline")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runPlan(ctx context.Context, out io.Writer, svc *app.Services, opts planOptions) error {
	origin, err := resolve(ctx, svc.Geocode, opts.from)
	if err != nil {
		return fmt.Errorf("origin %q: %w", opts.from, err)
	}
	destination, err := resolve(ctx, svc.Geocode, opts.to)
	if err != nil {
		return fmt.Errorf("destination %q: %w", opts.to, err)
	}

	req := usecases.PlanRequest{
		Origin:      origin,
		Destination: destination,
		Forecast:    opts.forecast,
	}
	if opts.depart != "" {
		if req.DepartureTime, err = time.Parse(time.RFC3339, opts.depart); err != nil {
			return fmt.Errorf("--depart: %w", err)
		}
	}

	plan, err := svc.Trips.Plan(ctx, req)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	unit := units.Fahrenheit
	if opts.celsius {
		unit = units.Celsius
	}
	return printPlan(out, plan, unit)
}

// resolve accepts "lat,lng" literally and geocodes anything else.
func resolve(ctx context.Context, geocode *usecases.GeocodeService, s string) (domain.Location, error) {
	if loc, ok := parseLatLng(s); ok {
		return loc, nil
	}
	return geocode.Resolve(ctx, s)
}

func parseLatLng(s string) (domain.Location, bool) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Location{}, false
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	ln, err2 := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err1 != nil || err2 != nil {
		return domain.Location{}, false
	}
	loc := domain.Location{Lat: la, Lng: ln}
	return loc, loc.Valid()
}

func printPlan(out io.Writer, plan *domain.TripPlan, unit units.TempUnit) error {
	r := plan.Route
	fmt.Fprintf(out, "%s → %s\n", label(plan.Origin), label(plan.Destination))
	fmt.Fprintf(out, "%s, %s via %s, departing %s\n\n",
		units.FormatDistance(r.Distance), units.FormatDuration(r.Duration), r.Provider,
		plan.DepartureTime.Local().Format("Mon 15:04"))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MILE\tETA\tTEMP\tWIND\tVISIBILITY\tCONDITIONS\tSEVERITY")
	for i, w := range plan.Weather {
		s := plan.Samples[i]
		fmt.Fprintf(tw, "%.0f\t+%s\t%s\t%s\t%s\t%s\t%s\n",
			units.Miles(s.Distance),
			units.FormatDuration(s.EstimatedTime),
			units.FormatTemperature(w.Temperature, unit),
			units.FormatWindSpeed(w.WindSpeed),
			units.FormatVisibility(w.Visibility),
			w.Description,
			w.Severity,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := plan.Summary
	fmt.Fprintf(out, "\nWorst: %s (%s), %s to %s, %d alerts\n",
		sum.WorstSeverity, sum.WorstDescription,
		units.FormatTemperature(sum.TempMin, unit), units.FormatTemperature(sum.TempMax, unit),
		sum.AlertCount)
	return nil
}

func label(l domain.Location) string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lng)
}
