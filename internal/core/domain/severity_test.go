package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

func TestSeverity_Order(t *testing.T) {
	if !(domain.SeverityClear < domain.SeverityCaution &&
		domain.SeverityCaution < domain.SeverityWarning &&
		domain.SeverityWarning < domain.SeveritySevere) {
		t.Fatal("severity tiers are not totally ordered")
	}
}

func TestWorse(t *testing.T) {
	tests := []struct {
		a, b, want domain.Severity
	}{
		{domain.SeverityClear, domain.SeverityClear, domain.SeverityClear},
		{domain.SeverityClear, domain.SeverityWarning, domain.SeverityWarning},
		{domain.SeveritySevere, domain.SeverityCaution, domain.SeveritySevere},
	}
	for _, tt := range tests {
		if got := domain.Worse(tt.a, tt.b); got != tt.want {
			t.Errorf("Worse(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSeverity_JSON(t *testing.T) {
	r := domain.WeatherReading{Severity: domain.SeverityWarning}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["severity"] != "warning" {
		t.Errorf("expected severity \"warning\", got %v", raw["severity"])
	}

	var back domain.WeatherReading
	if err := json.Unmarshal([]byte(`{"severity":"SEVERE"}`), &back); err != nil {
		t.Fatalf("unmarshal reading: %v", err)
	}
	if back.Severity != domain.SeveritySevere {
		t.Errorf("expected severe, got %s", back.Severity)
	}
}

func TestParseSeverity_Unknown(t *testing.T) {
	_, err := domain.ParseSeverity("apocalyptic")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeverity_Color(t *testing.T) {
	if got := domain.SeveritySevere.Color(); got != "#ef4444" {
		t.Errorf("severe color = %s", got)
	}
	if got := domain.Severity(9).Color(); got != "#6b7280" {
		t.Errorf("unknown color = %s", got)
	}
}

func TestCoordinate_Order(t *testing.T) {
	loc := domain.Location{Lat: 43.26, Lng: -2.93}
	c := loc.Coordinate()
	if c[0] != -2.93 || c[1] != 43.26 {
		t.Fatalf("expected lon-first coordinate, got %v", c)
	}
	if c.Lat() != 43.26 || c.Lon() != -2.93 {
		t.Fatalf("accessors disagree with ordering: %v", c)
	}
	if back := domain.LocationOf(c); back.Lat != loc.Lat || back.Lng != loc.Lng {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
