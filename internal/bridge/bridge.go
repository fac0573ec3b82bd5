package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/ledger"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// RetryConfig bounds the retries of a ledger update that failed on storage
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Config holds the configuration for the confirmation bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	Retry          RetryConfig
}

// Bridge applies transaction confirmation results to the purchase ledger
type Bridge interface {
	// Run consumes confirmations until ctx is cancelled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	ledger ledger.Ledger
	json   adapter.JSON
	config Config
}

// NewBridge connects to NATS and creates a confirmation bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	l ledger.Ledger,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
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

	return &bridge{
		nc:     nc,
		js:     js,
		ledger: l,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts consuming confirmation events
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting confirmation bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName),
	)

	err := b.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     b.config.StreamName,
		Subjects: []string{domain.PURCHASE_STREAM_SUBJECTS},
	})
	if err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: domain.CONFIRMATION_SUBJECT_FILTER,
	})
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming confirmations")

	// Messages are applied one at a time so that confirmations of the same
	// purchase are not reordered
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down confirmation bridge")
			return ctx.Err()
		case msg := <-msgChan:
			b.handleMessage(ctx, msg)
		}
	}
}

// handleMessage applies a single confirmation and settles the message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveryCount uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveryCount = metadata.NumDelivered
	}

	var event domain.TxConfirmationEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to unmarshal confirmation: %w", err), zap.String("subject", msg.Subject()))
		b.term(ctx, msg)
		return
	}
	if err := event.Validate(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("subject", msg.Subject()))
		b.term(ctx, msg)
		return
	}

	fields := []zap.Field{
		zap.String("purchaseID", event.PurchaseID),
		zap.String("status", string(event.Status)),
		zap.String("txSignature", event.TxSignature),
		zap.Uint64("deliveryCount", deliveryCount),
	}
	logger.InfoCtx(ctx, "Received confirmation", fields...)

	err := b.applyWithRetry(ctx, &event)
	switch {
	case err == nil:
		b.ack(ctx, msg)
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrPurchaseNotFound):
		logger.WarnCtx(ctx, "Confirmation cannot be applied, dropping", append(fields, zap.Error(err))...)
		b.ack(ctx, msg)
	case errors.Is(err, domain.ErrDuplicateSignature),
		errors.Is(err, domain.ErrSignatureAlreadySet),
		errors.Is(err, domain.ErrSupplyExhausted),
		errors.Is(err, domain.ErrInvalidInput):
		logger.ErrorCtx(ctx, fmt.Errorf("conflicting confirmation: %w", err), fields...)
		b.term(ctx, msg)
	default:
		logger.ErrorCtx(ctx, fmt.Errorf("failed to apply confirmation: %w", err), fields...)
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to NAK message: %w", err))
		}
	}
}

// applyWithRetry retries storage failures with exponential backoff; business errors are permanent
func (b *bridge) applyWithRetry(ctx context.Context, event *domain.TxConfirmationEvent) error {
	bo := backoff.NewExponentialBackOff()
	if b.config.Retry.InitialInterval > 0 {
		bo.InitialInterval = b.config.Retry.InitialInterval
	}
	if b.config.Retry.MaxInterval > 0 {
		bo.MaxInterval = b.config.Retry.MaxInterval
	}
	if b.config.Retry.MaxElapsedTime > 0 {
		bo.MaxElapsedTime = b.config.Retry.MaxElapsedTime
	}

	operation := func() error {
		err := b.apply(ctx, event)
		if err != nil && !errors.Is(err, domain.ErrStorageUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notify := func(err error, next time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Ledger update failed, retrying",
			zap.String("purchaseID", event.PurchaseID),
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", next),
		)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
}

// apply maps a confirmation to ledger transitions. A finalized transaction on a
// purchase that never saw its confirmation passes through confirmed first.
func (b *bridge) apply(ctx context.Context, event *domain.TxConfirmationEvent) error {
	sig := signature(event.TxSignature)

	switch event.Status {
	case domain.ConfirmationStatusBuilt:
		_, _, err := b.ledger.UpdateStatus(ctx, event.PurchaseID, schema.PurchaseStatusTxBuilt, sig)
		return err

	case domain.ConfirmationStatusConfirmed:
		_, _, err := b.ledger.UpdateStatus(ctx, event.PurchaseID, schema.PurchaseStatusConfirmed, sig)
		return err

	case domain.ConfirmationStatusFinalized:
		purchase, err := b.ledger.FindByID(ctx, event.PurchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrPurchaseNotFound
		}
		if purchase.Status != schema.PurchaseStatusConfirmed && purchase.Status != schema.PurchaseStatusFulfilled {
			if _, _, err := b.ledger.UpdateStatus(ctx, event.PurchaseID, schema.PurchaseStatusConfirmed, sig); err != nil {
				return err
			}
		}
		_, _, err = b.ledger.UpdateStatus(ctx, event.PurchaseID, schema.PurchaseStatusFulfilled, sig)
		return err

	case domain.ConfirmationStatusFailed:
		reason := event.Reason
		if reason == "" {
			reason = "transaction failed"
		}
		_, _, err := b.ledger.Fail(ctx, event.PurchaseID, reason, sig)
		return err
	}

	return fmt.Errorf("%w: unknown confirmation status %q", domain.ErrInvalidInput, event.Status)
}

func (b *bridge) ack(ctx context.Context, msg adapter.Message) {
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ACK message: %w", err))
	}
}

func (b *bridge) term(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
	}
}

func signature(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Close drains the NATS connection
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	if err := b.nc.Drain(); err != nil {
		logger.Error(fmt.Errorf("failed to drain NATS connection: %w", err))
		b.nc.Close()
	}
}
