package inventory_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/inventory"
	"github.com/feral-file/trait-inventory/internal/ledger"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/mocks"
	"github.com/feral-file/trait-inventory/internal/store"
	"github.com/feral-file/trait-inventory/internal/store/schema"
	"github.com/feral-file/trait-inventory/internal/testutil"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	code := m.Run()
	testutil.Terminate()
	os.Exit(code)
}

const (
	traitA        = "11111111-1111-1111-1111-111111111111"
	traitB        = "22222222-2222-2222-2222-222222222222"
	reservationID = "33333333-3333-3333-3333-333333333333"
	wallet        = "WalletAAAA"
	asset         = "asset-1"
)

var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

type managerMocks struct {
	ctrl   *gomock.Controller
	store  *mocks.MockStore
	ledger *mocks.MockLedger
	clock  *mocks.MockClock
}

func setupManager(t *testing.T, cfg inventory.Config) (inventory.Manager, *managerMocks) {
	ctrl := gomock.NewController(t)
	m := &managerMocks{
		ctrl:   ctrl,
		store:  mocks.NewMockStore(ctrl),
		ledger: mocks.NewMockLedger(ctrl),
		clock:  mocks.NewMockClock(ctrl),
	}
	m.clock.EXPECT().Now().Return(now).AnyTimes()
	m.store.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(store.Store) error) error {
			return fn(m.store)
		}).
		AnyTimes()
	return inventory.NewManager(cfg, m.store, m.ledger, m.clock), m
}

func limitedTrait(id string, remaining int) *schema.Trait {
	total := remaining
	return &schema.Trait{
		ID:              id,
		Name:            "Golden Frame",
		TotalSupply:     &total,
		RemainingSupply: remaining,
		Active:          true,
		PriceAmount:     decimal.RequireFromString("2.5"),
		TokenID:         "So11111111111111111111111111111111111111112",
	}
}

func reservation(traitID string, status schema.ReservationStatus, expiresAt time.Time) *schema.Reservation {
	return &schema.Reservation{
		ID:            reservationID,
		TraitID:       traitID,
		WalletAddress: wallet,
		AssetID:       asset,
		Status:        status,
		ExpiresAt:     expiresAt,
		CreatedAt:     now.Add(-time.Minute),
	}
}

func TestCheckInventoryAvailability(t *testing.T) {
	tests := []struct {
		name      string
		trait     *schema.Trait
		held      store.HeldUnits
		available bool
		remaining int
	}{
		{
			name:      "unlimited trait is always available",
			trait:     &schema.Trait{ID: traitA, Active: true},
			held:      store.HeldUnits{ActiveReservations: 1000},
			available: true,
			remaining: 0,
		},
		{
			name:      "reservations reduce effective supply",
			trait:     limitedTrait(traitA, 5),
			held:      store.HeldUnits{ActiveReservations: 3},
			available: true,
			remaining: 2,
		},
		{
			name:      "pending purchases keep holding their unit",
			trait:     limitedTrait(traitA, 2),
			held:      store.HeldUnits{ActiveReservations: 1, PendingPurchases: 1},
			available: false,
			remaining: 0,
		},
		{
			name:      "effective supply never goes negative",
			trait:     limitedTrait(traitA, 1),
			held:      store.HeldUnits{ActiveReservations: 4},
			available: false,
			remaining: 0,
		},
		{
			name:      "sold out",
			trait:     limitedTrait(traitA, 0),
			available: false,
			remaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, m := setupManager(t, inventory.Config{})
			m.store.EXPECT().GetTrait(gomock.Any(), traitA).Return(tt.trait, nil)
			m.store.EXPECT().GetHeldUnits(gomock.Any(), traitA, now).Return(tt.held, nil)

			a, err := mgr.CheckInventoryAvailability(context.Background(), traitA)
			require.NoError(t, err)
			assert.Equal(t, tt.available, a.Available)
			assert.Equal(t, tt.remaining, a.Remaining)
			assert.Equal(t, tt.held.ActiveReservations, a.ActiveReservations)
			assert.Equal(t, tt.held.PendingPurchases, a.PendingPurchases)
			assert.Equal(t, tt.trait.Unlimited(), a.Unlimited)
		})
	}
}

func TestCheckInventoryAvailability_TraitNotFound(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	m.store.EXPECT().GetTrait(gomock.Any(), traitA).Return(nil, nil)

	_, err := mgr.CheckInventoryAvailability(context.Background(), traitA)
	assert.ErrorIs(t, err, domain.ErrTraitNotFound)

	_, err = mgr.CheckInventoryAvailability(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrTraitNotFound)
}

func TestCheckInventoryAvailability_StorageError(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	m.store.EXPECT().
		GetTrait(gomock.Any(), traitA).
		Return(nil, domain.NewStorageError("get trait", errors.New("dial tcp: connection refused")))

	_, err := mgr.CheckInventoryAvailability(context.Background(), traitA)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestCreateReservation_Success(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{ReservationTTL: 15 * time.Minute})
	ctx := context.Background()

	gomock.InOrder(
		m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(limitedTrait(traitA, 3), nil),
		m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(nil, nil),
		m.store.EXPECT().ExpireReservationsForTuple(ctx, traitA, wallet, asset, now).Return(int64(0), nil),
		m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(0), nil),
		m.store.EXPECT().GetHeldUnits(ctx, traitA, now).Return(store.HeldUnits{ActiveReservations: 2}, nil),
		m.store.EXPECT().
			CreateReservation(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, in store.CreateReservationInput) (*schema.Reservation, error) {
				assert.Equal(t, now.Add(15*time.Minute), in.ExpiresAt)
				assert.Equal(t, now, in.CreatedAt)
				assert.NotEmpty(t, in.ID)
				r := reservation(traitA, schema.ReservationStatusReserved, in.ExpiresAt)
				r.ID = in.ID
				return r, nil
			}),
	)

	r, err := mgr.CreateReservation(ctx, traitA, "  "+wallet+" ", asset)
	require.NoError(t, err)
	assert.Equal(t, schema.ReservationStatusReserved, r.Status)
	assert.Equal(t, now.Add(15*time.Minute), r.ExpiresAt)
}

func TestCreateReservation_ReturnsExistingActiveReservation(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	existing := reservation(traitA, schema.ReservationStatusReserved, now.Add(5*time.Minute))
	m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(limitedTrait(traitA, 1), nil)
	m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(existing, nil)

	r, err := mgr.CreateReservation(ctx, traitA, wallet, asset)
	require.NoError(t, err)
	assert.Same(t, existing, r)
}

func TestCreateReservation_Rejections(t *testing.T) {
	inactive := limitedTrait(traitA, 1)
	inactive.Active = false

	tests := []struct {
		name    string
		setup   func(m *managerMocks)
		wantErr error
	}{
		{
			name: "trait not found",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetTraitForUpdate(gomock.Any(), traitA).Return(nil, nil)
			},
			wantErr: domain.ErrTraitNotFound,
		},
		{
			name: "trait inactive",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetTraitForUpdate(gomock.Any(), traitA).Return(inactive, nil)
			},
			wantErr: domain.ErrTraitInactive,
		},
		{
			name: "wallet limit reached",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetTraitForUpdate(gomock.Any(), traitA).Return(limitedTrait(traitA, 10), nil)
				m.store.EXPECT().FindActiveReservation(gomock.Any(), traitA, wallet, asset, now).Return(nil, nil)
				m.store.EXPECT().ExpireReservationsForTuple(gomock.Any(), traitA, wallet, asset, now).Return(int64(0), nil)
				m.store.EXPECT().GetActiveReservationCountByWallet(gomock.Any(), wallet, now).Return(int64(2), nil)
			},
			wantErr: domain.ErrReservationLimitExceeded,
		},
		{
			name: "insufficient inventory",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetTraitForUpdate(gomock.Any(), traitA).Return(limitedTrait(traitA, 1), nil)
				m.store.EXPECT().FindActiveReservation(gomock.Any(), traitA, wallet, asset, now).Return(nil, nil)
				m.store.EXPECT().ExpireReservationsForTuple(gomock.Any(), traitA, wallet, asset, now).Return(int64(1), nil)
				m.store.EXPECT().GetActiveReservationCountByWallet(gomock.Any(), wallet, now).Return(int64(0), nil)
				m.store.EXPECT().GetHeldUnits(gomock.Any(), traitA, now).Return(store.HeldUnits{ActiveReservations: 1}, nil)
			},
			wantErr: domain.ErrInsufficientInventory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, m := setupManager(t, inventory.Config{MaxActiveReservationsPerWallet: 2})
			tt.setup(m)

			r, err := mgr.CreateReservation(context.Background(), traitA, wallet, asset)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, r)
		})
	}
}

func TestCreateReservation_InvalidInput(t *testing.T) {
	mgr, _ := setupManager(t, inventory.Config{})

	_, err := mgr.CreateReservation(context.Background(), traitA, " ", asset)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = mgr.CreateReservation(context.Background(), traitA, wallet, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = mgr.CreateReservation(context.Background(), "trait-1", wallet, asset)
	assert.ErrorIs(t, err, domain.ErrTraitNotFound)
}

func TestCreateReservation_UnlimitedSkipsSupplyCheck(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(&schema.Trait{ID: traitA, Active: true}, nil)
	m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(nil, nil)
	m.store.EXPECT().ExpireReservationsForTuple(ctx, traitA, wallet, asset, now).Return(int64(0), nil)
	m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(0), nil)
	m.store.EXPECT().
		CreateReservation(ctx, gomock.Any()).
		Return(reservation(traitA, schema.ReservationStatusReserved, now.Add(15*time.Minute)), nil)

	_, err := mgr.CreateReservation(ctx, traitA, wallet, asset)
	require.NoError(t, err)
}

func TestHandleConcurrentReservation_ReturnsWinner(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	winner := reservation(traitA, schema.ReservationStatusReserved, now.Add(10*time.Minute))
	m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(limitedTrait(traitA, 5), nil)
	gomock.InOrder(
		m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(nil, nil),
		m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(winner, nil),
	)
	m.store.EXPECT().ExpireReservationsForTuple(ctx, traitA, wallet, asset, now).Return(int64(0), nil)
	m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(0), nil)
	m.store.EXPECT().GetHeldUnits(ctx, traitA, now).Return(store.HeldUnits{}, nil)
	m.store.EXPECT().CreateReservation(ctx, gomock.Any()).Return(nil, domain.ErrReservationConflict)

	r, err := mgr.HandleConcurrentReservation(ctx, traitA, wallet, asset)
	require.NoError(t, err)
	assert.Same(t, winner, r)
}

func TestHandleConcurrentReservation_PassesThroughOtherErrors(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	m.store.EXPECT().GetTraitForUpdate(gomock.Any(), traitA).Return(nil, nil)

	_, err := mgr.HandleConcurrentReservation(context.Background(), traitA, wallet, asset)
	assert.ErrorIs(t, err, domain.ErrTraitNotFound)
}

func TestReserveTraits_LocksInSortedOrderAndKeepsRequestOrder(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	newReservation := func(traitID string) func(context.Context, store.CreateReservationInput) (*schema.Reservation, error) {
		return func(_ context.Context, in store.CreateReservationInput) (*schema.Reservation, error) {
			r := reservation(traitID, schema.ReservationStatusReserved, in.ExpiresAt)
			r.ID = in.ID
			return r, nil
		}
	}

	gomock.InOrder(
		m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(limitedTrait(traitA, 1), nil),
		m.store.EXPECT().CreateReservation(ctx, gomock.Any()).DoAndReturn(newReservation(traitA)),
		m.store.EXPECT().GetTraitForUpdate(ctx, traitB).Return(limitedTrait(traitB, 1), nil),
		m.store.EXPECT().CreateReservation(ctx, gomock.Any()).DoAndReturn(newReservation(traitB)),
	)
	m.store.EXPECT().FindActiveReservation(ctx, gomock.Any(), wallet, asset, now).Return(nil, nil).Times(2)
	m.store.EXPECT().ExpireReservationsForTuple(ctx, gomock.Any(), wallet, asset, now).Return(int64(0), nil).Times(2)
	m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(0), nil).Times(2)
	m.store.EXPECT().GetHeldUnits(ctx, gomock.Any(), now).Return(store.HeldUnits{}, nil).Times(2)

	rs, err := mgr.ReserveTraits(ctx, []string{traitB, traitA, traitB}, wallet, asset)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, traitB, rs[0].TraitID)
	assert.Equal(t, traitA, rs[1].TraitID)
}

func TestReserveTraits_AllOrNothing(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	m.store.EXPECT().GetTraitForUpdate(ctx, traitA).Return(limitedTrait(traitA, 1), nil)
	m.store.EXPECT().FindActiveReservation(ctx, traitA, wallet, asset, now).Return(nil, nil)
	m.store.EXPECT().ExpireReservationsForTuple(ctx, traitA, wallet, asset, now).Return(int64(0), nil)
	m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(0), nil)
	m.store.EXPECT().GetHeldUnits(ctx, traitA, now).Return(store.HeldUnits{}, nil)
	m.store.EXPECT().
		CreateReservation(ctx, gomock.Any()).
		Return(reservation(traitA, schema.ReservationStatusReserved, now.Add(15*time.Minute)), nil)

	soldOut := limitedTrait(traitB, 0)
	m.store.EXPECT().GetTraitForUpdate(ctx, traitB).Return(soldOut, nil)
	m.store.EXPECT().FindActiveReservation(ctx, traitB, wallet, asset, now).Return(nil, nil)
	m.store.EXPECT().ExpireReservationsForTuple(ctx, traitB, wallet, asset, now).Return(int64(0), nil)
	m.store.EXPECT().GetActiveReservationCountByWallet(ctx, wallet, now).Return(int64(1), nil)
	m.store.EXPECT().GetHeldUnits(ctx, traitB, now).Return(store.HeldUnits{}, nil)

	rs, err := mgr.ReserveTraits(ctx, []string{traitA, traitB}, wallet, asset)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Nil(t, rs)
}

func TestReserveTraits_Validation(t *testing.T) {
	mgr, _ := setupManager(t, inventory.Config{MaxTraitsPerRequest: 1})

	_, err := mgr.ReserveTraits(context.Background(), nil, wallet, asset)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = mgr.ReserveTraits(context.Background(), []string{traitA, traitB}, wallet, asset)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = mgr.ReserveTraits(context.Background(), []string{"bogus"}, wallet, asset)
	assert.ErrorIs(t, err, domain.ErrTraitNotFound)
}

func TestGetReservationStatus(t *testing.T) {
	tests := []struct {
		name      string
		stored    *schema.Reservation
		found     bool
		isExpired bool
	}{
		{name: "missing", stored: nil, found: false},
		{name: "active", stored: reservation(traitA, schema.ReservationStatusReserved, now.Add(time.Minute)), found: true},
		{name: "reserved past expiry is lazily expired", stored: reservation(traitA, schema.ReservationStatusReserved, now.Add(-time.Second)), found: true, isExpired: true},
		{name: "expiry exactly now is expired", stored: reservation(traitA, schema.ReservationStatusReserved, now), found: true, isExpired: true},
		{name: "swept", stored: reservation(traitA, schema.ReservationStatusExpired, now.Add(-time.Hour)), found: true, isExpired: true},
		{name: "consumed is not expired", stored: reservation(traitA, schema.ReservationStatusConsumed, now.Add(-time.Hour)), found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, m := setupManager(t, inventory.Config{})
			m.store.EXPECT().GetReservationByID(gomock.Any(), reservationID).Return(tt.stored, nil)

			st, err := mgr.GetReservationStatus(context.Background(), reservationID)
			require.NoError(t, err)
			assert.Equal(t, tt.found, st.Found)
			assert.Equal(t, tt.isExpired, st.IsExpired)
			if tt.found {
				assert.Same(t, tt.stored, st.Reservation)
			}
		})
	}
}

func TestConsumeReservation_Success(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{TreasuryWallet: "Treasury1111"})
	ctx := context.Background()

	active := reservation(traitA, schema.ReservationStatusReserved, now.Add(5*time.Minute))
	consumed := *active
	consumed.Status = schema.ReservationStatusConsumed
	trait := limitedTrait(traitA, 1)

	m.store.EXPECT().GetReservationForUpdate(ctx, reservationID).Return(active, nil)
	m.store.EXPECT().ConsumeReservation(ctx, reservationID, now).Return(&consumed, nil)
	m.store.EXPECT().GetTrait(ctx, traitA).Return(trait, nil)
	m.ledger.EXPECT().
		Create(ctx, m.store, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.Store, in ledger.CreateInput) (*schema.Purchase, error) {
			assert.Equal(t, reservationID, in.ReservationID)
			assert.Equal(t, wallet, in.WalletAddress)
			assert.Equal(t, asset, in.AssetID)
			assert.Equal(t, traitA, in.TraitID)
			assert.True(t, trait.PriceAmount.Equal(in.PriceAmount))
			assert.Equal(t, trait.TokenID, in.TokenID)
			assert.Equal(t, "Treasury1111", in.TreasuryWallet)
			return &schema.Purchase{ID: "p-1", ReservationID: in.ReservationID, Status: schema.PurchaseStatusCreated}, nil
		})

	p, err := mgr.ConsumeReservation(ctx, reservationID, inventory.PurchaseDraft{})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, schema.PurchaseStatusCreated, p.Status)
}

func TestConsumeReservation_DraftOverridesDefaults(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{TreasuryWallet: "Treasury1111"})
	ctx := context.Background()

	active := reservation(traitA, schema.ReservationStatusReserved, now.Add(5*time.Minute))
	price := decimal.RequireFromString("0.75")
	sig := "5igSig"

	m.store.EXPECT().GetReservationForUpdate(ctx, reservationID).Return(active, nil)
	m.store.EXPECT().ConsumeReservation(ctx, reservationID, now).Return(active, nil)
	m.store.EXPECT().GetTrait(ctx, traitA).Return(limitedTrait(traitA, 1), nil)
	m.ledger.EXPECT().
		Create(ctx, m.store, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.Store, in ledger.CreateInput) (*schema.Purchase, error) {
			assert.True(t, price.Equal(in.PriceAmount))
			assert.Equal(t, "USDC", in.TokenID)
			assert.Equal(t, "OtherTreasury", in.TreasuryWallet)
			assert.Equal(t, schema.PurchaseStatusTxBuilt, in.Status)
			assert.Equal(t, &sig, in.TxSignature)
			return &schema.Purchase{ID: "p-1", Status: in.Status, TxSignature: in.TxSignature}, nil
		})

	_, err := mgr.ConsumeReservation(ctx, reservationID, inventory.PurchaseDraft{
		PriceAmount:    &price,
		TokenID:        "USDC",
		TreasuryWallet: "OtherTreasury",
		Status:         schema.PurchaseStatusTxBuilt,
		TxSignature:    &sig,
	})
	require.NoError(t, err)
}

func TestConsumeReservation_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *managerMocks)
		wantErr error
	}{
		{
			name: "not found",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetReservationForUpdate(gomock.Any(), reservationID).Return(nil, nil)
			},
			wantErr: domain.ErrReservationNotFound,
		},
		{
			name: "expired by time",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetReservationForUpdate(gomock.Any(), reservationID).
					Return(reservation(traitA, schema.ReservationStatusReserved, now.Add(-time.Second)), nil)
			},
			wantErr: domain.ErrReservationExpired,
		},
		{
			name: "already consumed",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetReservationForUpdate(gomock.Any(), reservationID).
					Return(reservation(traitA, schema.ReservationStatusConsumed, now.Add(time.Minute)), nil)
			},
			wantErr: domain.ErrReservationExpired,
		},
		{
			name: "lost race to sweeper",
			setup: func(m *managerMocks) {
				m.store.EXPECT().GetReservationForUpdate(gomock.Any(), reservationID).
					Return(reservation(traitA, schema.ReservationStatusReserved, now.Add(time.Minute)), nil)
				m.store.EXPECT().ConsumeReservation(gomock.Any(), reservationID, now).Return(nil, nil)
			},
			wantErr: domain.ErrReservationExpired,
		},
		{
			name: "purchase insert fails",
			setup: func(m *managerMocks) {
				r := reservation(traitA, schema.ReservationStatusReserved, now.Add(time.Minute))
				m.store.EXPECT().GetReservationForUpdate(gomock.Any(), reservationID).Return(r, nil)
				m.store.EXPECT().ConsumeReservation(gomock.Any(), reservationID, now).Return(r, nil)
				m.store.EXPECT().GetTrait(gomock.Any(), traitA).Return(limitedTrait(traitA, 1), nil)
				m.ledger.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateSignature)
			},
			wantErr: domain.ErrDuplicateSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, m := setupManager(t, inventory.Config{})
			tt.setup(m)

			p, err := mgr.ConsumeReservation(context.Background(), reservationID, inventory.PurchaseDraft{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestCancelReservation_Idempotent(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})
	ctx := context.Background()

	cancelled := reservation(traitA, schema.ReservationStatusCancelled, now.Add(time.Minute))
	gomock.InOrder(
		m.store.EXPECT().CancelReservation(ctx, reservationID, now).Return(cancelled, nil),
		m.store.EXPECT().CancelReservation(ctx, reservationID, now).Return(nil, nil),
	)

	r, err := mgr.CancelReservation(ctx, reservationID)
	require.NoError(t, err)
	assert.Equal(t, schema.ReservationStatusCancelled, r.Status)

	r, err = mgr.CancelReservation(ctx, reservationID)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestBulkCancelReservations(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{BulkCancelConcurrency: 2})
	ctx := context.Background()

	ids := []string{
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
		"aaaaaaaa-0000-0000-0000-000000000003",
	}

	var mu sync.Mutex
	called := map[string]int{}
	m.store.EXPECT().
		CancelReservation(gomock.Any(), gomock.Any(), now).
		DoAndReturn(func(_ context.Context, id string, _ time.Time) (*schema.Reservation, error) {
			mu.Lock()
			called[id]++
			mu.Unlock()
			switch id {
			case ids[0]:
				return &schema.Reservation{ID: id, Status: schema.ReservationStatusCancelled}, nil
			case ids[1]:
				return nil, nil
			default:
				return nil, domain.NewStorageError("cancel reservation", errors.New("timeout"))
			}
		}).
		Times(3)

	count, err := mgr.BulkCancelReservations(ctx, append(ids, ids[0], " "))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	for _, id := range ids {
		assert.Equal(t, 1, called[id])
	}
}

func TestBulkCancelReservations_AllStorageFailures(t *testing.T) {
	mgr, m := setupManager(t, inventory.Config{})

	m.store.EXPECT().
		CancelReservation(gomock.Any(), gomock.Any(), now).
		Return(nil, domain.NewStorageError("cancel reservation", errors.New("connection refused"))).
		Times(2)

	_, err := mgr.BulkCancelReservations(context.Background(), []string{
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
	})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestBulkCancelReservations_Empty(t *testing.T) {
	mgr, _ := setupManager(t, inventory.Config{})

	count, err := mgr.BulkCancelReservations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
