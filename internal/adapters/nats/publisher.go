package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// Stream and subject names.
const (
	StreamName            = "SURVEY"
	ResourceUploadedRoot  = "survey.resource.uploaded"
	AnalysisProgressRoot  = "survey.analysis"
	AnalysisProgressAll   = AnalysisProgressRoot + ".>"
	ResourceUploadedAll   = ResourceUploadedRoot + ".>"
	thumbnailerDurable    = "thumbnailer"
	streamMaxAge          = 24 * time.Hour
	defaultReconnectDelay = 2 * time.Second
)

// ResourceUploadedSubject is the subject of one resource's upload events.
func ResourceUploadedSubject(resourceID int64) string {
	return ResourceUploadedRoot + "." + strconv.FormatInt(resourceID, 10)
}

// AnalysisProgressSubject is the subject of one analysis' progress events.
func AnalysisProgressSubject(analysisID int64) string {
	return AnalysisProgressRoot + "." + strconv.FormatInt(analysisID, 10)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

// ensureStream creates the SURVEY stream, or updates it when it exists.
func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{ResourceUploadedAll, AnalysisProgressAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    streamMaxAge,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishResourceUploaded(ctx context.Context, evt *domain.ResourceUploadedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ResourceUploadedSubject(evt.ResourceID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishAnalysisProgress(ctx context.Context, evt *domain.AnalysisProgressEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(AnalysisProgressSubject(evt.AnalysisID), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(defaultReconnectDelay),
	)
}
