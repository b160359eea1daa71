package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/app"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/config"
)

func TestClassifyCmd(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "clear"},
		{[]string{"--precip", "7"}, "warning"},
		{[]string{"--description", "Thunderstorm with heavy rain"}, "severe"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			root := newRootCmd()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs(append([]string{"classify"}, tt.args...))
			if err := root.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got := strings.Fields(out.String()); len(got) == 0 || got[0] != tt.want {
				t.Errorf("output %q, want severity %s", out.String(), tt.want)
			}
		})
	}
}

func TestParseLatLng(t *testing.T) {
	if loc, ok := parseLatLng("43.263, -2.935"); !ok || loc.Lat != 43.263 || loc.Lng != -2.935 {
		t.Errorf("parseLatLng = %+v, %v", loc, ok)
	}
	for _, s := range []string{"Bilbao", "91,0", "1,2,3", "a,b"} {
		if _, ok := parseLatLng(s); ok {
			t.Errorf("parseLatLng(%q) should fail", s)
		}
	}
}

func TestRunPlan_Offline(t *testing.T) {
	cfg := &config.Config{
		Providers: config.ProvidersConfig{NominatimUserAgent: "tripctl-test", HTTPTimeout: 1},
		Routing:   config.RoutingConfig{StraightLinePoints: 10},
		Weather:   config.WeatherConfig{MaxConcurrency: 2},
	}
	svc := app.NewServices(cfg, app.NewProviders(cfg), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := runPlan(ctx, &out, svc, planOptions{
		from:    "43.263,-2.935",
		to:      "40.4168,-3.7038",
		depart:  "2026-11-02T08:00:00Z",
		celsius: true,
	})
	if err != nil {
		t.Fatalf("runPlan: %v", err)
	}
	text := out.String()
	for _, want := range []string{"via straight", "SEVERITY", "Worst:"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if err := runPlan(ctx, &out, svc, planOptions{from: "1,1", to: "2,2", depart: "tomorrow"}); err == nil {
		t.Error("expected an error for a bad --depart")
	}
}
