package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/aboutorca/WeatherNavApp/internal/adapters/nats"
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "trips" | "alerts" (default: trips)
	Filter  string `json:"filter"`  // trip id for trips, severity for alerts; "" = all
}

// wsSubject maps a client subscription onto a NATS subject.
func wsSubject(m wsMessage) (string, string) {
	channel := m.Channel
	if channel == "" {
		channel = "trips"
	}
	switch channel {
	case "trips":
		if m.Filter != "" {
			return natsadapter.SubjectTrips + "." + m.Filter, ""
		}
		return natsadapter.SubjectTrips + ".>", ""
	case "alerts":
		if m.Filter == "" {
			return natsadapter.SubjectAlerts + ".>", ""
		}
		sev, err := domain.ParseSeverity(m.Filter)
		if err != nil {
			return "", "unknown severity: " + m.Filter
		}
		return natsadapter.SubjectAlerts + "." + sev.String(), ""
	default:
		return "", "unknown channel: " + channel
	}
}

// WebSocketHandler returns a handler that relays trip and weather events
// from NATS to connected clients as JSON.
// Clients send {"action":"subscribe","channel":"alerts","filter":"severe"}.
// Every connection starts subscribed to all trip events.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		logger := slog.Default().With("remote_addr", c.RemoteAddr().String())
		logger.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if nc == nil {
			_ = c.WriteJSON(map[string]string{"error": "event stream unavailable"})
			return
		}

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		relay := func(msg *nats.Msg) {
			payload, err := natsadapter.ToJSON(msg.Data)
			if err != nil {
				logger.Warn("ws dropping undecodable event", "subject", msg.Subject, "error", err)
				return
			}
			_ = writeJSON(wsEvent{Subject: msg.Subject, Data: payload})
		}

		defaultSubject := natsadapter.SubjectTrips + ".>"
		sub, err := nc.Subscribe(defaultSubject, relay)
		if err != nil {
			logger.Error("ws default subscribe failed", "error", err)
			return
		}
		subs[defaultSubject] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, problem := wsSubject(m)
			if problem != "" {
				_ = writeJSON(map[string]string{"error": problem})
				continue
			}

			switch strings.ToLower(m.Action) {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}

// wsEvent is one relayed event.
type wsEvent struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}
