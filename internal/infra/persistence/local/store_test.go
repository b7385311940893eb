package local

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/persistence/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (repository.Store, kv.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := kv.OpenBlob(context.Background(), "mem://", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	return NewStore("mock", "mock", backend, seed.Mock, logger), backend
}

func TestStore_AbsentCollectionsReadAsSeed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(seed.Mock().Users))

	jane, err := s.Users().FindByID(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	require.NotNil(t, jane)
	assert.Equal(t, 5400, jane.Balance())

	missing, err := s.Users().FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_LookupsAreCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	byName, err := s.Users().FindByUsername(ctx, "JDriver")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, seed.MockDriverJane, byName.ID)

	byEmail, err := s.Users().FindByEmail(ctx, "  JANE.DRIVER@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, seed.MockDriverJane, byEmail.ID)
}

func TestStore_WritesPersistFullSnapshot(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Catalog().Create(ctx, &entity.Product{ID: "prod-new", Name: "Mug", PricePoints: 100}))

	raw, err := backend.Get(ctx, "mock/catalog")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "prod-new")
	assert.Contains(t, string(raw), "prod-thermos")

	require.NoError(t, s.Catalog().Delete(ctx, "prod-new"))
	p, err := s.Catalog().FindByID(ctx, "prod-new")
	require.NoError(t, err)
	assert.Nil(t, p)

	err = s.Catalog().Delete(ctx, "prod-new")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_TransactionsInsertNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Transactions().Insert(ctx, &entity.Transaction{ID: "tx-new", UserID: seed.MockDriverJane, Amount: 10}))

	history, err := s.Transactions().ListByUser(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "tx-new", history[0].ID)
}

func TestStore_UpdateMissingFails(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Users().Update(context.Background(), &entity.User{ID: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ResetRestoresSeeds(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	jane, err := s.Users().FindByID(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	jane.DisplayName = "Changed"
	require.NoError(t, s.Users().Update(ctx, jane))

	require.NoError(t, s.Reset(ctx))

	keys, err := backend.Keys(ctx, "mock/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	jane, err = s.Users().FindByID(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	assert.Equal(t, "Jane Driver", jane.DisplayName)
}

func TestStore_MarkAllRead(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	changed, err := s.Notifications().MarkAllRead(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	items, err := s.Notifications().ListByUser(ctx, seed.MockDriverJane)
	require.NoError(t, err)
	for _, n := range items {
		assert.True(t, n.Read)
	}
}
