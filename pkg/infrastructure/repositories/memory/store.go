package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/events"
)

// CommitHook is consulted with the pending changes just before a write group is applied.
// Returning an error rejects the whole group.
type CommitHook func(changes []repositories.ChangeEvent) error

// Option configures a Store
type Option func(*Store)

// WithFeed shares a change feed with the store
func WithFeed(feed *events.Feed) Option {
	return func(s *Store) { s.feed = feed }
}

// WithClock sets the clock used to stamp change events
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCommitHook installs a hook that can veto commits
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) { s.hook = hook }
}

// WithLogger sets the store logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// state is the full data set; transactions work on a clone and swap it in on commit
type state struct {
	items      map[entities.ItemID]entities.SupplyItem
	itemSeq    map[entities.ItemID]int
	sessions   map[entities.SessionID]entities.ScheduleSession
	sessionSeq map[entities.SessionID]int
	ledger     []entities.LedgerEntry
	seq        int
}

func newState() state {
	return state{
		items:      make(map[entities.ItemID]entities.SupplyItem),
		itemSeq:    make(map[entities.ItemID]int),
		sessions:   make(map[entities.SessionID]entities.ScheduleSession),
		sessionSeq: make(map[entities.SessionID]int),
		ledger:     []entities.LedgerEntry{},
	}
}

func (st state) clone() state {
	out := state{
		items:      make(map[entities.ItemID]entities.SupplyItem, len(st.items)),
		itemSeq:    make(map[entities.ItemID]int, len(st.itemSeq)),
		sessions:   make(map[entities.SessionID]entities.ScheduleSession, len(st.sessions)),
		sessionSeq: make(map[entities.SessionID]int, len(st.sessionSeq)),
		// capacity is clipped so appends inside a transaction never touch committed entries
		ledger: st.ledger[:len(st.ledger):len(st.ledger)],
		seq:    st.seq,
	}
	for id, item := range st.items {
		out.items[id] = item
	}
	for id, n := range st.itemSeq {
		out.itemSeq[id] = n
	}
	for id, session := range st.sessions {
		out.sessions[id] = session.Clone()
	}
	for id, n := range st.sessionSeq {
		out.sessionSeq[id] = n
	}
	return out
}

// Store is an in-memory implementation of repositories.Store.
// Write groups are serialised under one mutex and applied by swapping in a cloned state,
// so readers see either all of a group or none of it.
type Store struct {
	mu     sync.RWMutex
	state  state
	feed   *events.Feed
	now    func() time.Time
	hook   CommitHook
	logger *slog.Logger
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty in-memory store
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:  newState(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.feed == nil {
		s.feed = events.NewFeed(s.logger)
	}
	return s
}

// Feed returns the change feed subscribers are attached to
func (s *Store) Feed() *events.Feed {
	return s.feed
}

// RunInTransaction executes fn within a transactional copy of the store state
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &transaction{state: s.state.clone(), now: s.now()}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.hook != nil {
		if err := s.hook(tx.changes); err != nil {
			s.mu.Unlock()
			s.logger.Warn("write group rejected", "changes", len(tx.changes), "error", err)
			return err
		}
	}
	s.state = tx.state
	s.mu.Unlock()

	s.feed.Publish(tx.changes...)
	return nil
}

// Subscribe registers handler for committed changes
func (s *Store) Subscribe(handler repositories.ChangeHandler, collections ...repositories.Collection) func() {
	return s.feed.Subscribe(handler, collections...)
}

// Close is a no-op for the in-memory store
func (s *Store) Close() error {
	return nil
}

// transaction implements repositories.Transaction over a cloned state
type transaction struct {
	state   state
	now     time.Time
	changes []repositories.ChangeEvent
}

func (tx *transaction) record(collection repositories.Collection, op repositories.ChangeOp, id string) {
	tx.changes = append(tx.changes, events.NewChange(collection, op, id, tx.now))
}
