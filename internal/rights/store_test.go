package rights_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentium/rentium-api/internal/rights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.HexToAddress("0x1111111111111111111111111111111111111111")
	user  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	other = common.HexToAddress("0x3333333333333333333333333333333333333333")

	epoch = time.Unix(1_700_000_000, 0)
)

func newRecordParams(amount uint64, expiry time.Time) rights.CreateRecordParams {
	return rights.CreateRecordParams{
		Owner:   owner,
		User:    user,
		AssetID: 3,
		Amount:  amount,
		Expiry:  expiry,
	}
}

func TestStore_CreateAssignsMonotonicIDs(t *testing.T) {
	store := rights.NewStore(3)

	first, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID, "ids start at 1")

	second, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.ID)

	// Deletion never frees an id for reuse
	_, err = store.Delete(second.ID)
	require.NoError(t, err)

	third, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), third.ID)
}

func TestStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		params    rights.CreateRecordParams
		available uint64
		wantErr   error
	}{
		{
			name: "zero user",
			params: rights.CreateRecordParams{
				Owner:   owner,
				User:    common.Address{},
				AssetID: 3,
				Amount:  1,
				Expiry:  epoch.Add(time.Hour),
			},
			available: 5,
			wantErr:   rights.ErrInvalidUser,
		},
		{
			name:      "zero amount",
			params:    newRecordParams(0, epoch.Add(time.Hour)),
			available: 5,
			wantErr:   rights.ErrInvalidAmount,
		},
		{
			name:      "expiry in the past",
			params:    newRecordParams(1, epoch.Add(-time.Second)),
			available: 5,
			wantErr:   rights.ErrInvalidExpiry,
		},
		{
			name:      "expiry exactly now",
			params:    newRecordParams(1, epoch),
			available: 5,
			wantErr:   rights.ErrInvalidExpiry,
		},
		{
			name:      "amount above available balance",
			params:    newRecordParams(6, epoch.Add(time.Hour)),
			available: 5,
			wantErr:   rights.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := rights.NewStore(3)

			_, err := store.Create(tt.params, epoch, tt.available)
			assert.ErrorIs(t, err, tt.wantErr)

			// Failure commits nothing
			assert.Zero(t, store.FrozenAmount(owner, 3, epoch))
		})
	}
}

func TestStore_CreateChecksUserBeforeAmount(t *testing.T) {
	// With several preconditions violated at once the fixed check order
	// surfaces the user validation first.
	store := rights.NewStore(3)

	_, err := store.Create(rights.CreateRecordParams{
		Owner:   owner,
		User:    common.Address{},
		AssetID: 3,
		Amount:  0,
		Expiry:  epoch.Add(-time.Hour),
	}, epoch, 0)
	assert.ErrorIs(t, err, rights.ErrInvalidUser)
}

func TestStore_CreateChecksLimitBeforeBalance(t *testing.T) {
	store := rights.NewStore(1)

	_, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)

	// Both the record cap and the balance ceiling are violated; the cap
	// fires first.
	_, err = store.Create(newRecordParams(10, epoch.Add(time.Hour)), epoch, 0)
	assert.ErrorIs(t, err, rights.ErrRecordLimitExceeded)
}

func TestStore_RecordLimit(t *testing.T) {
	store := rights.NewStore(3)

	for i := 0; i < 3; i++ {
		_, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
		require.NoError(t, err)
	}

	_, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	assert.ErrorIs(t, err, rights.ErrRecordLimitExceeded)
}

func TestStore_LimitCountsPairsIndependently(t *testing.T) {
	store := rights.NewStore(1)

	_, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)

	// Same owner, different asset
	_, err = store.Create(rights.CreateRecordParams{
		Owner:   owner,
		User:    user,
		AssetID: 4,
		Amount:  1,
		Expiry:  epoch.Add(time.Hour),
	}, epoch, 5)
	require.NoError(t, err)

	// Different owner, same asset
	_, err = store.Create(rights.CreateRecordParams{
		Owner:   other,
		User:    user,
		AssetID: 3,
		Amount:  1,
		Expiry:  epoch.Add(time.Hour),
	}, epoch, 5)
	require.NoError(t, err)
}

func TestStore_LazyExpiryFreesLimitSlots(t *testing.T) {
	store := rights.NewStore(3)

	for i := 0; i < 3; i++ {
		_, err := store.Create(newRecordParams(1, epoch.Add(time.Minute)), epoch, 5)
		require.NoError(t, err)
	}

	// Past the expiry the stale records no longer count toward the cap
	later := epoch.Add(2 * time.Minute)
	rec, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), later, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), rec.ID, "expired records never surrender their ids")
	assert.Equal(t, uint64(2), store.FrozenAmount(owner, 3, later))
}

func TestStore_FrozenAmount(t *testing.T) {
	store := rights.NewStore(3)

	assert.Zero(t, store.FrozenAmount(owner, 3, epoch), "no records means zero frozen")

	_, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	_, err = store.Create(newRecordParams(1, epoch.Add(time.Minute)), epoch, 3)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), store.FrozenAmount(owner, 3, epoch))

	// The short-lived record drops out lazily
	assert.Equal(t, uint64(2), store.FrozenAmount(owner, 3, epoch.Add(2*time.Minute)))
}

func TestStore_CreateDeleteRoundTrip(t *testing.T) {
	store := rights.NewStore(3)

	before := store.FrozenAmount(owner, 3, epoch)

	rec, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	assert.Equal(t, before+2, store.FrozenAmount(owner, 3, epoch))

	_, err = store.Delete(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, before, store.FrozenAmount(owner, 3, epoch))
}

func TestStore_DeleteUnknownRecord(t *testing.T) {
	store := rights.NewStore(3)

	_, err := store.Delete(42)
	assert.ErrorIs(t, err, rights.ErrRecordNotFound)
}

func TestStore_DeleteExpiredUnsweptRecord(t *testing.T) {
	store := rights.NewStore(3)

	rec, err := store.Create(newRecordParams(1, epoch.Add(time.Minute)), epoch, 5)
	require.NoError(t, err)

	// Expired but no operation has touched the pair yet; deletion still
	// succeeds.
	deleted, err := store.Delete(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, deleted.ID)
}

func TestStore_Get(t *testing.T) {
	store := rights.NewStore(3)

	rec, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, user, got.User)
	assert.Equal(t, uint64(3), got.AssetID)
	assert.Equal(t, uint64(2), got.Amount)

	_, err = store.Get(999)
	assert.ErrorIs(t, err, rights.ErrRecordNotFound)
}

func TestStore_UsableAmount(t *testing.T) {
	store := rights.NewStore(3)

	_, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	_, err = store.Create(newRecordParams(1, epoch.Add(time.Minute)), epoch, 3)
	require.NoError(t, err)

	// A second owner delegating the same asset to the same user
	_, err = store.Create(rights.CreateRecordParams{
		Owner:   other,
		User:    user,
		AssetID: 3,
		Amount:  4,
		Expiry:  epoch.Add(time.Hour),
	}, epoch, 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), store.UsableAmount(user, 3, epoch))
	assert.Equal(t, uint64(6), store.UsableAmount(user, 3, epoch.Add(2*time.Minute)))
	assert.Zero(t, store.UsableAmount(other, 3, epoch))
}

func TestStore_RecordsFor(t *testing.T) {
	store := rights.NewStore(3)

	first, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	second, err := store.Create(newRecordParams(2, epoch.Add(time.Hour)), epoch, 4)
	require.NoError(t, err)

	records := store.RecordsFor(owner, 3, epoch)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)

	assert.Empty(t, store.RecordsFor(other, 3, epoch))
}

func TestStore_RestoreAdvancesIDCounter(t *testing.T) {
	store := rights.NewStore(3)

	store.Restore(rights.Record{
		ID:      7,
		Owner:   owner,
		User:    user,
		AssetID: 3,
		Amount:  2,
		Expiry:  epoch.Add(time.Hour),
	})

	assert.Equal(t, uint64(2), store.FrozenAmount(owner, 3, epoch))

	rec, err := store.Create(newRecordParams(1, epoch.Add(time.Hour)), epoch, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), rec.ID, "fresh ids allocate past restored ones")
}
