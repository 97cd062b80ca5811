package entitlements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/open-rails/themekit/catalog"
)

// FlushReporter receives durable-write failures so the app shell can warn
// that the session may not survive a restart. Implementations should be
// non-blocking and best-effort.
type FlushReporter interface {
	ReportFlushError(ctx context.Context, key string, err error)
}

// Store holds the in-memory entitlement state and flushes mutations to a
// KV adapter through a single background writer, so writes land in commit
// order even though callers never block on them.
type Store struct {
	cat *catalog.Catalog
	kv  KV
	log *logrus.Logger
	rep FlushReporter

	mu      sync.Mutex
	closed  bool
	owned   map[string]struct{} // premium grants; defaults are implicit
	balance int
	active  string

	pending chan flushOp
	drained chan struct{}
}

type flushOp struct {
	key   string
	value string
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger replaces the default logrus standard logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFlushReporter installs a sink for failed durable writes.
func WithFlushReporter(r FlushReporter) Option {
	return func(s *Store) { s.rep = r }
}

// Open hydrates a store from kv and starts its background writer.
// Hydration never fails on storage problems: each of the three keys falls
// back to the seed value independently when absent, unreadable, or
// unparseable, and a persisted active selection pointing at an item the
// owned set does not cover is repaired back to the default item. Open only
// errors on programmer mistakes (nil collaborators, invalid seed).
func Open(ctx context.Context, cat *catalog.Catalog, kv KV, seed Seed, opts ...Option) (*Store, error) {
	if cat == nil {
		return nil, errors.New("entitlements: nil catalog")
	}
	if kv == nil {
		return nil, errors.New("entitlements: nil kv")
	}
	if seed.Balance < 0 {
		return nil, fmt.Errorf("entitlements: negative seed balance %d", seed.Balance)
	}
	fallbackActive := cat.DefaultActive().ID
	if seed.ActiveItemID != "" {
		it, ok := cat.Lookup(seed.ActiveItemID)
		if !ok || !it.DefaultOwned {
			return nil, fmt.Errorf("entitlements: seed active item %q is not a default-owned catalog item", seed.ActiveItemID)
		}
		fallbackActive = it.ID
	}

	s := &Store{
		cat:     cat,
		kv:      kv,
		log:     logrus.StandardLogger(),
		pending: make(chan flushOp, 32),
		drained: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(ctx, seed, fallbackActive)
	go s.flushLoop()
	return s, nil
}

// hydrate assembles state from the three persisted keys. Each key decodes
// independently; corruption in one never discards the others.
func (s *Store) hydrate(ctx context.Context, seed Seed, fallbackActive string) {
	s.balance = seed.Balance
	if raw, ok, err := s.kv.Get(ctx, KeyBalance); err != nil {
		s.warnRead(KeyBalance, err)
	} else if ok {
		if n, valid := parseBalance(raw); valid {
			s.balance = n
		} else {
			s.warnCorrupt(KeyBalance, raw)
		}
	}

	s.owned = make(map[string]struct{})
	if raw, ok, err := s.kv.Get(ctx, KeyOwned); err != nil {
		s.warnRead(KeyOwned, err)
	} else if ok {
		for _, id := range decodeOwned(raw) {
			it, known := s.cat.Lookup(id)
			if !known || it.Tier != catalog.TierPremium {
				s.log.WithField("item", id).Warn("entitlements: dropping stale owned entry")
				continue
			}
			s.owned[it.ID] = struct{}{}
		}
	}

	s.active = fallbackActive
	if raw, ok, err := s.kv.Get(ctx, KeyActive); err != nil {
		s.warnRead(KeyActive, err)
	} else if ok {
		id := strings.TrimSpace(raw)
		it, known := s.cat.Lookup(id)
		if known && s.isOwned(it) {
			s.active = it.ID
		} else {
			// Partial-write repair: a selection without a matching grant
			// reverts to the default item rather than violating
			// active ∈ owned.
			s.log.WithField("item", id).Warn("entitlements: persisted selection not owned, reverting to default")
		}
	}
}

// Snapshot returns a copy of the current state. The owned list unions the
// catalog's default-owned items with persisted grants and is sorted.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	ids := make([]string, 0, len(s.owned)+2)
	for _, it := range s.cat.DefaultOwned() {
		ids = append(ids, it.ID)
	}
	for id := range s.owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Snapshot{ActiveItemID: s.active, OwnedItemIDs: ids, Balance: s.balance}
}

// SelectItem makes id the active appearance. The id must resolve in the
// catalog and already be owned; rejections leave state untouched.
func (s *Store) SelectItem(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	it, ok := s.cat.Lookup(id)
	if !ok {
		return ErrUnknownItem
	}
	if !s.isOwned(it) {
		return ErrNotOwned
	}
	s.active = it.ID
	s.enqueueLocked(KeyActive, it.ID)
	return nil
}

// PurchaseItem debits the price and grants ownership as one step. Free and
// already-granted items reject with ErrAlreadyOwned so a double tap never
// charges twice. The debit is flushed before the grant: if the process dies
// between the two writes the user loses currency but is never handed an
// unpaid item, which hydrate cannot otherwise repair.
func (s *Store) PurchaseItem(ctx context.Context, id string) (Receipt, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Receipt{}, ErrClosed
	}
	it, ok := s.cat.Lookup(id)
	if !ok {
		return Receipt{}, ErrUnknownItem
	}
	if it.Tier != catalog.TierPremium || s.isOwned(it) {
		return Receipt{}, ErrAlreadyOwned
	}
	if s.balance < it.Price {
		return Receipt{}, ErrInsufficientBalance
	}
	s.balance -= it.Price
	s.owned[it.ID] = struct{}{}
	s.enqueueLocked(KeyBalance, strconv.Itoa(s.balance))
	s.enqueueLocked(KeyOwned, encodeOwned(s.owned))
	return Receipt{ID: uuid.New(), ItemID: it.ID, Price: it.Price, Balance: s.balance}, nil
}

// AdjustBalance applies delta and returns the new balance. A delta that
// would take the balance negative rejects with ErrInsufficientBalance.
func (s *Store) AdjustBalance(ctx context.Context, delta int) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	next := s.balance + delta
	if next < 0 {
		return 0, ErrInsufficientBalance
	}
	s.balance = next
	s.enqueueLocked(KeyBalance, strconv.Itoa(next))
	return next, nil
}

// Close drains pending writes and stops the background writer. The store
// rejects mutations afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()
	<-s.drained
	return nil
}

func (s *Store) isOwned(it catalog.Item) bool {
	if it.DefaultOwned {
		return true
	}
	_, ok := s.owned[it.ID]
	return ok
}

// enqueueLocked hands a write to the background writer. Called with mu
// held, so queue order always matches commit order.
func (s *Store) enqueueLocked(key, value string) {
	s.pending <- flushOp{key: key, value: value}
}

// flushLoop performs durable writes sequentially. Failures are reported
// and dropped, never retried: the in-memory state stays authoritative for
// the session and only durability is at risk.
func (s *Store) flushLoop() {
	for op := range s.pending {
		if err := s.kv.Set(context.Background(), op.key, op.value); err != nil {
			s.log.WithError(err).WithField("key", op.key).
				Warn("entitlements: durable write failed, state kept for this session")
			if s.rep != nil {
				s.rep.ReportFlushError(context.Background(), op.key, err)
			}
		}
	}
	close(s.drained)
}

func (s *Store) warnRead(key string, err error) {
	s.log.WithError(err).WithField("key", key).
		Warn("entitlements: storage read failed, using seed default")
}

func (s *Store) warnCorrupt(key, raw string) {
	s.log.WithFields(logrus.Fields{"key": key, "value": raw}).
		Warn("entitlements: unparseable persisted value, using seed default")
}
