package bridge_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/bridge"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
	mockspkg "github.com/feral-file/trait-inventory/internal/mocks"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const purchaseID = "44444444-4444-4444-4444-444444444444"

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl           *gomock.Controller
	natsJS         *mockspkg.MockNatsJetStream
	natsConn       *mockspkg.MockNatsConn
	jetStream      *mockspkg.MockJetStream
	consumer       *mockspkg.MockConsumer
	consumeContext *mockspkg.MockConsumeContext
	ledger         *mockspkg.MockLedger
	json           *mockspkg.MockJSON
}

func setupTestBridge(t *testing.T) *testBridgeMocks {
	ctrl := gomock.NewController(t)

	return &testBridgeMocks{
		ctrl:           ctrl,
		natsJS:         mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:       mockspkg.NewMockNatsConn(ctrl),
		jetStream:      mockspkg.NewMockJetStream(ctrl),
		consumer:       mockspkg.NewMockConsumer(ctrl),
		consumeContext: mockspkg.NewMockConsumeContext(ctrl),
		ledger:         mockspkg.NewMockLedger(ctrl),
		json:           mockspkg.NewMockJSON(ctrl),
	}
}

func testConfig() bridge.Config {
	return bridge.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "PURCHASES",
		ConsumerName:   "purchase-bridge",
		MaxReconnects:  10,
		ReconnectWait:  time.Second,
		ConnectionName: "test-bridge",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     5,
		Retry: bridge.RetryConfig{
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxElapsedTime:  50 * time.Millisecond,
		},
	}
}

func newBridge(t *testing.T, mocks *testBridgeMocks, jsonAdapter adapter.JSON) bridge.Bridge {
	mocks.natsJS.
		EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.ledger, jsonAdapter)
	require.NoError(t, err)
	return b
}

// runBridge starts Run and returns the message handler registered with the consumer
func runBridge(t *testing.T, mocks *testBridgeMocks, b bridge.Bridge) (adapter.MessageHandler, func()) {
	mocks.jetStream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), jetstream.StreamConfig{
			Name:     "PURCHASES",
			Subjects: []string{"purchases.>"},
		}).
		Return(nil)
	mocks.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "PURCHASES", jetstream.ConsumerConfig{
			Durable:       "purchase-bridge",
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       30 * time.Second,
			MaxDeliver:    5,
			FilterSubject: "purchases.confirmations.>",
		}).
		Return(mocks.consumer, nil)
	mocks.consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "purchase-bridge"}, nil)

	handlerCh := make(chan adapter.MessageHandler, 1)
	mocks.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(h adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlerCh <- h
			return mocks.consumeContext, nil
		})
	mocks.consumeContext.EXPECT().Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
	}()

	var handler adapter.MessageHandler
	select {
	case handler = <-handlerCh:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer was not started")
	}

	stop := func() {
		cancel()
		assert.ErrorIs(t, <-errCh, context.Canceled)
	}
	return handler, stop
}

type settlement string

const (
	acked      settlement = "ack"
	naked      settlement = "nak"
	terminated settlement = "term"
)

// newMessage returns a message mock that reports how it was settled on the returned channel
func newMessage(mocks *testBridgeMocks, data string) (*mockspkg.MockMessage, chan settlement) {
	msg := mockspkg.NewMockMessage(mocks.ctrl)
	settled := make(chan settlement, 1)

	msg.EXPECT().Data().Return([]byte(data)).AnyTimes()
	msg.EXPECT().Subject().Return("purchases.confirmations." + purchaseID).AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()
	msg.EXPECT().Ack().DoAndReturn(func() error { settled <- acked; return nil }).MaxTimes(1)
	msg.EXPECT().Nak().DoAndReturn(func() error { settled <- naked; return nil }).MaxTimes(1)
	msg.EXPECT().Term().DoAndReturn(func() error { settled <- terminated; return nil }).MaxTimes(1)
	return msg, settled
}

func waitSettled(t *testing.T, settled chan settlement) settlement {
	select {
	case s := <-settled:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("message was not settled")
		return ""
	}
}

func ptr(s string) *string {
	return &s
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	mocks := setupTestBridge(t)

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.ledger, mocks.json)
	assert.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestBridge_Run_CreateStreamError(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, mocks.json)

	mocks.jetStream.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(assert.AnError)

	err := b.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update stream")
}

func TestBridge_Run_CreateConsumerError(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, mocks.json)

	mocks.jetStream.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil)
	mocks.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "PURCHASES", gomock.Any()).
		Return(nil, assert.AnError)

	err := b.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestBridge_AppliesConfirmations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		expect  func(l *mockspkg.MockLedger)
	}{
		{
			name:    "built records signature",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"built"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().
					UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusTxBuilt, ptr("sig-1")).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusTxBuilt}, true, nil)
			},
		},
		{
			name:    "confirmed",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"confirmed"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().
					UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusConfirmed, ptr("sig-1")).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusConfirmed}, true, nil)
			},
		},
		{
			name:    "finalized after confirmed fulfills",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"finalized"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().FindByID(gomock.Any(), purchaseID).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusConfirmed}, nil)
				l.EXPECT().
					UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusFulfilled, ptr("sig-1")).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusFulfilled}, true, nil)
			},
		},
		{
			name:    "finalized without confirmation passes through confirmed",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"finalized"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().FindByID(gomock.Any(), purchaseID).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusTxBuilt}, nil)
				gomock.InOrder(
					l.EXPECT().
						UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusConfirmed, ptr("sig-1")).
						Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusConfirmed}, true, nil),
					l.EXPECT().
						UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusFulfilled, ptr("sig-1")).
						Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusFulfilled}, true, nil),
				)
			},
		},
		{
			name:    "failed",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"failed","reason":"blockhash not found"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().Fail(gomock.Any(), purchaseID, "blockhash not found", ptr("sig-1")).
					Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusFailed}, true, nil)
			},
		},
		{
			name:    "invalid transition is dropped",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-1","status":"built"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().
					UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusTxBuilt, ptr("sig-1")).
					Return(nil, false, domain.ErrInvalidStatusTransition)
			},
		},
		{
			name:    "unknown purchase is dropped",
			payload: `{"purchase_id":"` + purchaseID + `","status":"failed"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().Fail(gomock.Any(), purchaseID, "transaction failed", nil).
					Return(nil, false, domain.ErrPurchaseNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestBridge(t)
			b := newBridge(t, mocks, adapter.NewJSON())
			tt.expect(mocks.ledger)

			handler, stop := runBridge(t, mocks, b)
			defer stop()

			msg, settled := newMessage(mocks, tt.payload)
			handler(msg)
			assert.Equal(t, acked, waitSettled(t, settled))
		})
	}
}

func TestBridge_TerminatesConflictingAndMalformedMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		expect  func(l *mockspkg.MockLedger)
	}{
		{
			name:    "not json",
			payload: `{not-json`,
		},
		{
			name:    "missing signature",
			payload: `{"purchase_id":"` + purchaseID + `","status":"confirmed"}`,
		},
		{
			name:    "unknown status",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig","status":"dropped"}`,
		},
		{
			name:    "duplicate signature",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-2","status":"built"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusTxBuilt, ptr("sig-2")).
					Return(nil, false, domain.ErrDuplicateSignature)
			},
		},
		{
			name:    "signature already set",
			payload: `{"purchase_id":"` + purchaseID + `","tx_signature":"sig-2","status":"confirmed"}`,
			expect: func(l *mockspkg.MockLedger) {
				l.EXPECT().UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusConfirmed, ptr("sig-2")).
					Return(nil, false, domain.ErrSignatureAlreadySet)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestBridge(t)
			b := newBridge(t, mocks, adapter.NewJSON())
			if tt.expect != nil {
				tt.expect(mocks.ledger)
			}

			handler, stop := runBridge(t, mocks, b)
			defer stop()

			msg, settled := newMessage(mocks, tt.payload)
			handler(msg)
			assert.Equal(t, terminated, waitSettled(t, settled))
		})
	}
}

func TestBridge_RetriesStorageErrors(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, adapter.NewJSON())

	storageErr := domain.NewStorageError("lock purchase", errors.New("connection reset"))
	gomock.InOrder(
		mocks.ledger.EXPECT().
			UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusConfirmed, ptr("sig-1")).
			Return(nil, false, storageErr).
			Times(2),
		mocks.ledger.EXPECT().
			UpdateStatus(gomock.Any(), purchaseID, schema.PurchaseStatusConfirmed, ptr("sig-1")).
			Return(&schema.Purchase{ID: purchaseID, Status: schema.PurchaseStatusConfirmed}, true, nil),
	)

	handler, stop := runBridge(t, mocks, b)
	defer stop()

	msg, settled := newMessage(mocks, `{"purchase_id":"`+purchaseID+`","tx_signature":"sig-1","status":"confirmed"}`)
	handler(msg)
	assert.Equal(t, acked, waitSettled(t, settled))
}

func TestBridge_NaksWhenStorageStaysDown(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, adapter.NewJSON())

	mocks.ledger.EXPECT().
		Fail(gomock.Any(), purchaseID, "simulation failed", nil).
		Return(nil, false, domain.NewStorageError("lock purchase", errors.New("connection refused"))).
		MinTimes(1)

	handler, stop := runBridge(t, mocks, b)
	defer stop()

	msg, settled := newMessage(mocks, `{"purchase_id":"`+purchaseID+`","status":"failed","reason":"simulation failed"}`)
	handler(msg)
	assert.Equal(t, naked, waitSettled(t, settled))
}

func TestBridge_UnmarshalErrorFromCodec(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, mocks.json)

	mocks.json.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).Return(assert.AnError)

	handler, stop := runBridge(t, mocks, b)
	defer stop()

	msg, settled := newMessage(mocks, `{}`)
	handler(msg)
	assert.Equal(t, terminated, waitSettled(t, settled))
}

func TestBridge_Close(t *testing.T) {
	mocks := setupTestBridge(t)
	b := newBridge(t, mocks, mocks.json)

	mocks.natsConn.EXPECT().Drain().Return(nil)
	b.Close()
}
