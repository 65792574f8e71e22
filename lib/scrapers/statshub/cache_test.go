package statshub

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDiscoveryCacheRoundTrip(t *testing.T) {
	db := openTestBadger(t)
	cache := NewDiscoveryCache(db, time.Minute)
	ctx := context.Background()

	matches := []Match{
		{Url: DefaultBaseUrl + "/fixture/arsenal-vs-chelsea/12345", Id: "12345", HomeName: "Arsenal", AwayName: "Chelsea"},
	}
	require.NoError(t, cache.Set(ctx, DefaultBaseUrl, DateToday, matches))

	got, err := cache.Get(ctx, DefaultBaseUrl, DateToday)
	require.NoError(t, err)
	if diff := cmp.Diff(matches, got); diff != "" {
		t.Fatalf("cached fixture list changed (-want +got):\n%s", diff)
	}

	// a different date filter is a different entry
	_, err = cache.Get(ctx, DefaultBaseUrl, DateTomorrow)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestDiscoveryCacheExpiry(t *testing.T) {
	db := openTestBadger(t)
	cache := NewDiscoveryCache(db, time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, DefaultBaseUrl, DateToday, []Match{{Id: "1"}}))
	time.Sleep(time.Second + time.Millisecond*50)

	_, err := cache.Get(ctx, DefaultBaseUrl, DateToday)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestDiscoveryCacheCorruptEntryIsAMiss(t *testing.T) {
	db := openTestBadger(t)
	cache := NewDiscoveryCache(db, time.Minute)
	ctx := context.Background()

	key, err := cache.key(DefaultBaseUrl, DateToday)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte("not gob"))
	}))

	_, err = cache.Get(ctx, DefaultBaseUrl, DateToday)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestDiscoveryCacheDefaultTTL(t *testing.T) {
	cache := NewDiscoveryCache(nil, 0)
	require.Equal(t, DefaultDiscoveryTTL, cache.ttl)
}
