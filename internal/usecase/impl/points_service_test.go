package impl

import (
	"context"
	"math"
	"testing"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceOf(t *testing.T, env *testEnv, userID string) int {
	t.Helper()

	ctx := context.Background()
	user, err := env.router.Active(ctx).Users().FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user)

	return user.Balance()
}

func TestPointsService_AdjustPoints_FloorScenario(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	require.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))

	res, err := svc.AdjustPoints(ctx, usecase.AdjustPointsInput{
		UserID: seed.MockDriverJane,
		Amount: -6000,
		Reason: "Too much",
		Actor:  "Swift Haul Operations",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, entity.CodePointsFloor, res.Code)
	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))

	res, err = svc.AdjustPoints(ctx, usecase.AdjustPointsInput{
		UserID: seed.MockDriverJane,
		Amount: -5000,
		Reason: "Log violation",
		Actor:  "Swift Haul Operations",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 400, balanceOf(t, env, seed.MockDriverJane))

	history, err := svc.ListTransactions(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, -5000, history[0].Amount)
	assert.Equal(t, "Log violation", history[0].Reason)
	assert.Equal(t, entity.TransactionManual, history[0].Type)
	assert.Equal(t, "Swift Haul Logistics", history[0].SponsorName)
}

func TestPointsService_AdjustPoints_PositiveRecordsTransaction(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()
	refresh := env.collect(t, service.SignalNotificationsRefresh)

	res, err := svc.AdjustPoints(ctx, usecase.AdjustPointsInput{
		UserID: seed.MockDriverJane,
		Amount: 300,
		Reason: "Safety bonus",
		Actor:  "Swift Haul Operations",
		Type:   entity.TransactionAutomated,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 5700, balanceOf(t, env, seed.MockDriverJane))

	history, err := svc.ListTransactions(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	assert.Equal(t, res.Data.ID, history[0].ID)
	assert.Equal(t, 300, history[0].Amount)
	assert.Equal(t, "Safety bonus", history[0].Reason)

	logs, err := env.router.Active(ctx).AuditLogs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Awarded points", logs[0].Action)

	notifications, err := env.router.Active(ctx).Notifications().ListByUser(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	assert.Equal(t, "Points updated", notifications[0].Title)

	select {
	case <-refresh:
	case <-time.After(time.Second):
		t.Fatal("notifications-refresh was not published")
	}
}

func TestPointsService_AdjustPoints_Failures(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    usecase.AdjustPointsInput
		wantCode string
	}{
		{name: "zero amount", input: usecase.AdjustPointsInput{UserID: seed.MockDriverJane}, wantCode: entity.CodeInvalidAmount},
		{name: "unknown user", input: usecase.AdjustPointsInput{UserID: "nobody", Amount: 10}, wantCode: entity.CodeUserNotFound},
		{name: "no balance", input: usecase.AdjustPointsInput{UserID: seed.MockApplicantKim, Amount: 10}, wantCode: entity.CodeNoBalance},
		{name: "unknown sponsor", input: usecase.AdjustPointsInput{UserID: seed.MockDriverJane, Amount: 10, SponsorID: "sp-ghost"}, wantCode: entity.CodeSponsorNotFound},
		{name: "bad type", input: usecase.AdjustPointsInput{UserID: seed.MockDriverJane, Amount: 10, Type: "GIFT"}, wantCode: entity.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.AdjustPoints(ctx, tt.input)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}

	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))
}

func TestPointsService_AdjustPoints_UsesSponsorFloor(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	// Marco has 1200 points under a sponsor whose floor is 100.
	res, err := svc.AdjustPoints(ctx, usecase.AdjustPointsInput{UserID: seed.MockDriverMarco, Amount: -1150, Reason: "x"})
	require.NoError(t, err)
	assert.Equal(t, entity.CodePointsFloor, res.Code)

	res, err = svc.AdjustPoints(ctx, usecase.AdjustPointsInput{UserID: seed.MockDriverMarco, Amount: -1100, Reason: "x"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 100, balanceOf(t, env, seed.MockDriverMarco))

	// Marco opted out of points alerts.
	notifications, err := env.router.Active(ctx).Notifications().ListByUser(ctx, seed.MockDriverMarco)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestPointsService_Purchase(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	res, err := svc.Purchase(ctx, seed.MockDriverJane, []usecase.PurchaseItem{
		{ProductID: "prod-seat", Quantity: 2},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, -3000, res.Data.Amount)
	assert.Equal(t, entity.TransactionPurchase, res.Data.Type)
	assert.Equal(t, 2400, balanceOf(t, env, seed.MockDriverJane))

	res, err = svc.Purchase(ctx, seed.MockDriverJane, []usecase.PurchaseItem{{ProductID: "prod-headset", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, entity.CodePointsFloor, res.Code)
	assert.Equal(t, 2400, balanceOf(t, env, seed.MockDriverJane))

	res, err = svc.Purchase(ctx, seed.MockDriverJane, []usecase.PurchaseItem{{ProductID: "prod-cooler", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, entity.CodeProductUnavailable, res.Code)

	res, err = svc.Purchase(ctx, seed.MockDriverJane, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.CodeEmptyCart, res.Code)
}

func TestPointsService_RefundLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	res, err := svc.ApproveRefund(ctx, seed.MockPurchaseTx, "Swift Haul Operations")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, entity.RefundRefunded, *res.Data.RefundStatus)
	assert.Equal(t, 6200, balanceOf(t, env, seed.MockDriverJane))

	res, err = svc.ApproveRefund(ctx, seed.MockPurchaseTx, "Swift Haul Operations")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, entity.CodeRefundNotPending, res.Code)
	assert.Equal(t, 6200, balanceOf(t, env, seed.MockDriverJane), "a second approval must not credit again")

	res, err = svc.DenyRefund(ctx, seed.MockPurchaseTx, "Swift Haul Operations")
	require.NoError(t, err)
	assert.Equal(t, entity.CodeRefundNotPending, res.Code)

	res, err = svc.ApproveRefund(ctx, "tx-jane-safety", "Swift Haul Operations")
	require.NoError(t, err)
	assert.Equal(t, entity.CodeRefundNotPending, res.Code)
}

func TestPointsService_RequestAndDenyRefund(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()
	chat := env.collect(t, service.SignalNewChatMessage)

	purchase, err := svc.Purchase(ctx, seed.MockDriverJane, []usecase.PurchaseItem{{ProductID: "prod-thermos", Quantity: 1}})
	require.NoError(t, err)
	require.True(t, purchase.Success)

	res, err := svc.RequestRefund(ctx, purchase.Data.ID, seed.MockDriverMarco, "not mine")
	require.NoError(t, err)
	assert.Equal(t, entity.CodeTransactionNotFound, res.Code)

	res, err = svc.RequestRefund(ctx, "tx-jane-safety", seed.MockDriverJane, "want it back")
	require.NoError(t, err)
	assert.Equal(t, entity.CodeNotRefundable, res.Code)

	res, err = svc.RequestRefund(ctx, purchase.Data.ID, seed.MockDriverJane, "Changed my mind")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.True(t, res.Data.RefundPendingApproval())

	res, err = svc.RequestRefund(ctx, purchase.Data.ID, seed.MockDriverJane, "again")
	require.NoError(t, err)
	assert.Equal(t, entity.CodeNotRefundable, res.Code)

	select {
	case <-chat:
	case <-time.After(time.Second):
		t.Fatal("new-chat-message was not published")
	}

	inbox, err := env.messages().Inbox(ctx, seed.MockSponsorStaff)
	require.NoError(t, err)
	last := inbox[len(inbox)-1]
	require.NotNil(t, last.RefundRequest)
	assert.Equal(t, purchase.Data.ID, last.RefundRequest.TransactionID)
	assert.Equal(t, 800, last.RefundRequest.Amount)

	before := balanceOf(t, env, seed.MockDriverJane)
	res, err = svc.DenyRefund(ctx, purchase.Data.ID, "Swift Haul Operations")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, entity.RefundRejected, *res.Data.RefundStatus)
	assert.Equal(t, before, balanceOf(t, env, seed.MockDriverJane))
}

func TestPointsService_ListSponsorTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	txs, err := env.points().ListSponsorTransactions(ctx, seed.MockSponsorPrairie)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-marco-inspection", txs[0].ID)
}

func TestPointsService_AdjustPoints_RejectsOverflow(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	for _, amount := range []int{math.MaxInt, math.MinInt} {
		res, err := svc.AdjustPoints(ctx, usecase.AdjustPointsInput{
			UserID: seed.MockDriverJane,
			Amount: amount,
			Reason: "Out of range",
			Actor:  "Platform Admin",
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, entity.CodeInvalidAmount, res.Code)
	}
	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))
}

func TestPointsService_Purchase_RejectsOverflowingTotals(t *testing.T) {
	env := newTestEnv(t)
	svc := env.points()
	ctx := context.Background()

	catalog := env.router.Active(ctx).Catalog()
	require.NoError(t, catalog.Create(ctx, &entity.Product{ID: "prod-gold", Name: "Gold Rig", PricePoints: math.MaxInt/2 + 1, Available: true}))

	tests := []struct {
		name  string
		items []usecase.PurchaseItem
	}{
		{"quantity above cap", []usecase.PurchaseItem{{ProductID: "prod-seat", Quantity: 6148914691236518}}},
		{"single line overflows", []usecase.PurchaseItem{{ProductID: "prod-gold", Quantity: 3}}},
		{"sum of lines overflows", []usecase.PurchaseItem{{ProductID: "prod-gold", Quantity: 1}, {ProductID: "prod-gold", Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Purchase(ctx, seed.MockDriverJane, tt.items)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, entity.CodeInvalidAmount, res.Code)
			assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))
		})
	}
}

// brokenUsers fails every balance write.
type brokenUsers struct {
	repository.UserRepository
}

func (brokenUsers) Update(context.Context, *entity.User) error {
	return errors.New("disk full")
}

type brokenUsersStore struct {
	repository.Store
}

func (s brokenUsersStore) Users() repository.UserRepository {
	return brokenUsers{UserRepository: s.Store.Users()}
}

type fixedRouter struct {
	store repository.Store
}

func (r fixedRouter) Active(context.Context) repository.Store { return r.store }

func TestPointsService_FailedBalanceWriteLeavesNoLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.router.Active(ctx)
	svc := NewPointsService(PointsServiceParams{
		Router: fixedRouter{store: brokenUsersStore{Store: store}},
		Bus:    env.bus,
		Logger: env.logger,
	})

	before, err := store.Transactions().ListByUser(ctx, seed.MockDriverJane)
	require.NoError(t, err)

	_, err = svc.AdjustPoints(ctx, usecase.AdjustPointsInput{
		UserID: seed.MockDriverJane,
		Amount: 100,
		Reason: "Bonus",
		Actor:  "Swift Haul Operations",
	})
	require.Error(t, err)

	after, err := store.Transactions().ListByUser(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))

	_, err = svc.ApproveRefund(ctx, seed.MockPurchaseTx, "Swift Haul Operations")
	require.Error(t, err)

	tx, err := store.Transactions().FindByID(ctx, seed.MockPurchaseTx)
	require.NoError(t, err)
	require.NotNil(t, tx.RefundStatus)
	assert.Equal(t, entity.RefundPending, *tx.RefundStatus)
	assert.Equal(t, 5400, balanceOf(t, env, seed.MockDriverJane))
}
