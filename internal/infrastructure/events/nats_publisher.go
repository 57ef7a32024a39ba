// Package events publishes product change events to NATS.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// publishConn is the part of *nats.Conn the publisher uses.
type publishConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes product events on "<prefix>.<event type>",
// e.g. "catalog.product.created".
type NATSPublisher struct {
	conn   publishConn
	prefix string
}

var _ domain.EventPublisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to url. The connection keeps retrying in the
// background, so a broker that is down at startup does not stop the service.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("variant-catalog"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newPublisher(nc, prefix), nil
}

func newPublisher(conn publishConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: strings.Trim(prefix, ".")}
}

func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, event domain.ProductEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}

	subject := p.Subject(event.EventType)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	logger.WithContext(ctx).Debug().
		Str("subject", subject).
		Str("product_id", event.ProductID.String()).
		Msg("Event published")
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NoopPublisher drops every event. It is used when NATS_URL is empty.
type NoopPublisher struct{}

var _ domain.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, domain.ProductEvent) error { return nil }
