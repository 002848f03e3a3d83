package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/dronesurvey/internal/adapters/nats"
	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
)

const (
	wsPingInterval    = 30 * time.Second
	wsSnapshotTimeout = 5 * time.Second
)

// wsMessage is a client command. A nil AnalysisID targets every analysis.
type wsMessage struct {
	Action     string `json:"action"` // subscribe or unsubscribe
	AnalysisID *int64 `json:"analysis_id"`
}

func wsSubject(m wsMessage) string {
	if m.AnalysisID == nil {
		return natsadapter.AnalysisProgressAll
	}
	return natsadapter.AnalysisProgressSubject(*m.AnalysisID)
}

// wsSession is one connected client and its NATS subscriptions.
type wsSession struct {
	conn *websocket.Conn
	nc   *nats.Conn
	deps *Dependencies
	log  *slog.Logger

	mu   sync.Mutex // serializes writes
	subs map[string]*nats.Subscription
}

func (s *wsSession) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsSession) fail(msg string) {
	_ = s.send(map[string]string{"error": msg})
}

func (s *wsSession) ack(status, subject string) {
	_ = s.send(map[string]string{"status": status, "subject": subject})
}

func (s *wsSession) relay(msg *nats.Msg) {
	_ = s.send(json.RawMessage(msg.Data))
}

func (s *wsSession) subscribe(subject string) error {
	if _, ok := s.subs[subject]; ok {
		return nil
	}
	sub, err := s.nc.Subscribe(subject, s.relay)
	if err != nil {
		return err
	}
	s.subs[subject] = sub
	return nil
}

// snapshot sends the stored state of one analysis so that a client joining
// mid-run does not wait for the next progress event.
func (s *wsSession) snapshot(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), wsSnapshotTimeout)
	defer cancel()
	a, err := s.deps.Analyses.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.send(domain.AnalysisProgressEvent{
		AnalysisID: a.ID,
		State:      a.State,
		Total:      a.Total,
		Current:    a.Current,
		Message:    a.Message,
	})
}

func (s *wsSession) handle(m wsMessage) {
	subject := wsSubject(m)
	switch m.Action {
	case "subscribe":
		if m.AnalysisID != nil {
			if err := s.snapshot(*m.AnalysisID); errors.Is(err, domain.ErrNotFound) {
				s.fail("analysis not found")
				return
			} else if err != nil {
				s.log.Warn("ws snapshot failed", "analysis_id", *m.AnalysisID, "error", err)
			}
		}
		if err := s.subscribe(subject); err != nil {
			s.fail("subscribe failed: " + err.Error())
			return
		}
		s.ack("subscribed", subject)

	case "unsubscribe":
		sub, ok := s.subs[subject]
		if !ok {
			s.fail("not subscribed to " + subject)
			return
		}
		_ = sub.Unsubscribe()
		delete(s.subs, subject)
		s.ack("unsubscribed", subject)

	default:
		s.fail("unknown action: " + m.Action)
	}
}

func (s *wsSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.mu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *wsSession) close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}

// WebSocketHandler relays analysis progress events from NATS to clients.
// Every connection starts subscribed to all analyses; clients narrow or
// widen the feed with {"action":"subscribe","analysis_id":12}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		s := &wsSession{
			conn: c,
			nc:   deps.NATS,
			deps: deps,
			log:  slog.With("remote", c.RemoteAddr().String()),
			subs: make(map[string]*nats.Subscription),
		}
		s.log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if s.nc == nil {
			s.fail("progress feed unavailable")
			return
		}
		if err := s.subscribe(natsadapter.AnalysisProgressAll); err != nil {
			s.log.Error("ws default subscribe failed", "error", err)
			return
		}
		defer s.close()

		done := make(chan struct{})
		defer close(done)
		go s.keepAlive(done)

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				s.fail("invalid JSON")
				continue
			}
			s.handle(m)
		}
		s.log.Info("ws client disconnected")
	}
}
