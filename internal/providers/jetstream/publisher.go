package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	PublishTimeout time.Duration
}

type publisher struct {
	nc             adapter.NatsConn
	js             adapter.JetStream
	json           adapter.JSON
	jcs            adapter.JCS
	publishTimeout time.Duration
}

// NewPublisher connects to NATS, makes sure the purchase stream exists and returns a publisher
func NewPublisher(
	ctx context.Context,
	cfg Config,
	natsJS adapter.NatsJetStream,
	jsonAdapter adapter.JSON,
	jcsAdapter adapter.JCS,
) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(fmt.Errorf("disconnected from NATS: %w", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	err = js.CreateOrUpdateStream(ctx, natsjs.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{domain.PURCHASE_STREAM_SUBJECTS},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create/update stream: %w", err)
	}

	return &publisher{
		nc:             nc,
		js:             js,
		json:           jsonAdapter,
		jcs:            jcsAdapter,
		publishTimeout: cfg.PublishTimeout,
	}, nil
}

// PublishPurchaseEvent publishes the canonical JSON of event. The event ID is used
// as the JetStream message ID so a retried publish is de-duplicated by the server.
func (p *publisher) PublishPurchaseEvent(ctx context.Context, event *domain.PurchaseEvent) error {
	if event == nil || event.EventID == "" {
		return errors.New("event id is required")
	}

	logger.DebugCtx(ctx, "Publishing purchase event",
		zap.String("eventID", event.EventID),
		zap.String("type", string(event.Type)),
		zap.String("purchaseID", event.PurchaseID),
	)

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data, err = p.jcs.Transform(data)
	if err != nil {
		return fmt.Errorf("failed to canonicalize event: %w", err)
	}

	if p.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.publishTimeout)
		defer cancel()
	}

	_, err = p.js.Publish(ctx, event.Subject(), data, natsjs.WithMsgID(event.EventID))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close drains the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
