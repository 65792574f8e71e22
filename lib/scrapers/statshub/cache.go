package statshub

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrCacheMiss covers everything that should make a caller re-discover:
// absent, expired and undecodable entries.
var ErrCacheMiss = badger.ErrKeyNotFound

// DefaultDiscoveryTTL is how long a discovered fixture list stays fresh.
// Fixture lists shift during the day as matches kick off and finish.
const DefaultDiscoveryTTL = time.Minute * 15

type cachedDiscovery struct {
	Matches   []Match
	ExpiresAt int64
}

// DiscoveryCache remembers fixture lists per site and date filter so batch
// runs do not re-scrape the listing page on every invocation.
type DiscoveryCache struct {
	db  *badger.DB
	ttl time.Duration
}

func NewDiscoveryCache(db *badger.DB, ttl time.Duration) DiscoveryCache {
	if ttl <= 0 {
		ttl = DefaultDiscoveryTTL
	}
	return DiscoveryCache{db: db, ttl: ttl}
}

func (c DiscoveryCache) key(baseUrl string, date DateFilter) (string, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		parsed,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return "discovery:" + normalized + ":" + string(date), nil
}

// Get returns the cached fixture list, or ErrCacheMiss when there is
// nothing fresh to return.
func (c DiscoveryCache) Get(ctx context.Context, baseUrl string, date DateFilter) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "cache:Get")
	defer span.End()

	key, err := c.key(baseUrl, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build cache key")
		return nil, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil, ErrCacheMiss
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache item")
		return nil, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cache item")
		return nil, err
	}

	var cached cachedDiscovery
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cache item")
		return nil, ErrCacheMiss
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("deleting expired cache key")

		tx := c.db.NewTransaction(true)
		defer tx.Commit()
		if err := tx.Delete([]byte(key)); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return nil, ErrCacheMiss
	}

	span.SetAttributes(attribute.Int("matches", len(cached.Matches)))
	return cached.Matches, nil
}

// Set stores a fixture list under the cache TTL.
func (c DiscoveryCache) Set(ctx context.Context, baseUrl string, date DateFilter, matches []Match) error {
	ctx, span := tracer.Start(ctx, "cache:Set")
	defer span.End()

	key, err := c.key(baseUrl, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build cache key")
		return err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(cachedDiscovery{
		Matches:   matches,
		ExpiresAt: time.Now().Add(c.ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode fixture list")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set([]byte(key), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache item")
		return err
	}
	return nil
}
