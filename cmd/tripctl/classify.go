package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
)

func newClassifyCmd() *cobra.Command {
	var r domain.WeatherReading

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Grade a single weather reading",
		Example: `  tripctl classify --precip 12 --wind 5
  tripctl classify --description "thunderstorm with rain"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			severity, rule := tripweather.Explain(r)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", severity, rule)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&r.Precipitation, "precip", 0, "precipitation in mm/h")
	f.Float64Var(&r.WindSpeed, "wind", 0, "wind speed in m/s")
	f.Float64Var(&r.Visibility, "visibility", 10000, "visibility in meters")
	f.Float64Var(&r.Temperature, "temp", 15, "temperature in °C")
	f.StringVar(&r.Description, "description", "clear sky", "weather description")
	return cmd
}
