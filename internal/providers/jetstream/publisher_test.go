package jetstream_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/messaging"
	"github.com/feral-file/trait-inventory/internal/mocks"
	"github.com/feral-file/trait-inventory/internal/providers/jetstream"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type publisherMocks struct {
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
	json      *mocks.MockJSON
	jcs       *mocks.MockJCS
}

func setupPublisherMocks(t *testing.T) *publisherMocks {
	ctrl := gomock.NewController(t)
	return &publisherMocks{
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
		json:      mocks.NewMockJSON(ctrl),
		jcs:       mocks.NewMockJCS(ctrl),
	}
}

var cfg = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "PURCHASES",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "test-publisher",
	PublishTimeout: time.Second,
}

func newPublisher(t *testing.T, m *publisherMocks, jsonAdapter adapter.JSON, jcsAdapter adapter.JCS) messaging.Publisher {
	m.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(m.natsConn, m.jetStream, nil)
	m.jetStream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), natsjs.StreamConfig{Name: "PURCHASES", Subjects: []string{"purchases.>"}}).
		Return(nil)

	p, err := jetstream.NewPublisher(context.Background(), cfg, m.natsJS, jsonAdapter, jcsAdapter)
	require.NoError(t, err)
	return p
}

func samplePurchase() *schema.Purchase {
	sig := "sig-1"
	return &schema.Purchase{
		ID:            "p-1",
		ReservationID: "r-1",
		TraitID:       "t-1",
		WalletAddress: "Wallet",
		AssetID:       "asset",
		Status:        schema.PurchaseStatusTxBuilt,
		TxSignature:   &sig,
	}
}

func TestNewPublisher_ConnectError(t *testing.T) {
	m := setupPublisherMocks(t)
	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, assert.AnError)

	p, err := jetstream.NewPublisher(context.Background(), cfg, m.natsJS, m.json, m.jcs)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestNewPublisher_StreamError(t *testing.T) {
	m := setupPublisherMocks(t)
	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.natsConn, m.jetStream, nil)
	m.jetStream.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(assert.AnError)
	m.natsConn.EXPECT().Close()

	p, err := jetstream.NewPublisher(context.Background(), cfg, m.natsJS, m.json, m.jcs)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update stream")
}

func TestPublishPurchaseEvent_PublishesCanonicalPayload(t *testing.T) {
	m := setupPublisherMocks(t)
	p := newPublisher(t, m, adapter.NewJSON(), adapter.NewJCS())

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	event := messaging.NewPurchaseEvent(domain.PurchaseEventStatusChanged, samplePurchase(), now)
	require.Len(t, event.EventID, 26)

	m.jetStream.EXPECT().
		Publish(gomock.Any(), "purchases.status_changed", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			assert.Len(t, opts, 1)
			// Canonical form sorts keys and has no insignificant whitespace
			assert.Equal(t,
				`{"asset_id":"asset","event_id":"`+event.EventID+`","occurred_at":"2026-04-01T12:00:00Z",`+
					`"purchase_id":"p-1","reservation_id":"r-1","status":"tx_built","trait_id":"t-1",`+
					`"tx_signature":"sig-1","type":"status_changed","wallet_address":"Wallet"}`,
				string(data))
			return &natsjs.PubAck{Stream: "PURCHASES", Sequence: 1}, nil
		})

	require.NoError(t, p.PublishPurchaseEvent(context.Background(), event))
}

func TestPublishPurchaseEvent_Errors(t *testing.T) {
	m := setupPublisherMocks(t)
	p := newPublisher(t, m, m.json, m.jcs)
	ctx := context.Background()
	event := messaging.NewPurchaseEvent(domain.PurchaseEventCreated, samplePurchase(), time.Now())

	err := p.PublishPurchaseEvent(ctx, &domain.PurchaseEvent{})
	require.Error(t, err)

	m.json.EXPECT().Marshal(event).Return(nil, assert.AnError)
	err = p.PublishPurchaseEvent(ctx, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal event")

	m.json.EXPECT().Marshal(event).Return([]byte(`{}`), nil)
	m.jcs.EXPECT().Transform([]byte(`{}`)).Return(nil, assert.AnError)
	err = p.PublishPurchaseEvent(ctx, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to canonicalize event")

	m.json.EXPECT().Marshal(event).Return([]byte(`{}`), nil)
	m.jcs.EXPECT().Transform([]byte(`{}`)).Return([]byte(`{}`), nil)
	m.jetStream.EXPECT().Publish(gomock.Any(), "purchases.created", []byte(`{}`), gomock.Any()).Return(nil, assert.AnError)
	err = p.PublishPurchaseEvent(ctx, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestPublisher_Close(t *testing.T) {
	m := setupPublisherMocks(t)
	p := newPublisher(t, m, m.json, m.jcs)

	m.natsConn.EXPECT().Drain().Return(assert.AnError)
	m.natsConn.EXPECT().Close()
	p.Close()
}

func TestNoopPublisher(t *testing.T) {
	p := messaging.NewNoopPublisher()
	assert.NoError(t, p.PublishPurchaseEvent(context.Background(), &domain.PurchaseEvent{}))
	p.Close()
}
