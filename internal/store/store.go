// Package store keeps the in-memory grocery list in step with the backend.
//
// Every mutation is applied locally first and then written through to the
// backend. A failed write is recorded (Op status, item status, shared error
// slot) but never rolled back; the list only resynchronises on Reload.
//
// Store is safe for concurrent use. Network calls run without holding the
// lock, so several mutations can be in flight at once and nothing orders
// their completion.
package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/remote"
)

// API is the backend the store writes through to. *remote.Client satisfies it.
type API interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, it model.Item) error
	SetChecked(ctx context.Context, id int, checked bool) error
	Delete(ctx context.Context, id int) error
}

const defaultOpLimit = 50

// Store holds the list state and the bookkeeping for in-flight writes.
type Store struct {
	api     API
	log     *slog.Logger
	delay   time.Duration
	policy  IDPolicy
	opLimit int
	newOpID func() string

	loadOnce sync.Once
	loadOp   model.Op

	mu        sync.Mutex
	state     model.State
	latest    map[int]model.Op // item id -> most recent op touching it
	ops       []model.Op
	highWater int

	changed chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLoadDelay makes Initialize wait d before fetching. Zero by default.
func WithLoadDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithIDPolicy picks how Add numbers new items.
func WithIDPolicy(p IDPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithOpLimit bounds how many recent ops Ops returns.
func WithOpLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.opLimit = n
		}
	}
}

// New returns an empty store in the loading state.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:     api,
		log:     slog.Default(),
		policy:  IDPolicyMax,
		opLimit: defaultOpLimit,
		newOpID: uuid.NewString,
		state:   model.State{Items: []model.Item{}, Loading: true},
		latest:  make(map[int]model.Op),
		changed: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Changed fires after every state change. Signals coalesce, so a reader
// should always re-read State rather than count ticks.
func (s *Store) Changed() <-chan struct{} { return s.changed }

// State returns a snapshot that is safe to keep.
func (s *Store) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ItemStatus reports the sync status of the latest mutation of item id.
func (s *Store) ItemStatus(id int) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[id].Status
}

// Ops returns recent operations, oldest first.
func (s *Store) Ops() []model.Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Op, len(s.ops))
	copy(out, s.ops)
	return out
}

// ClearError empties the shared error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Err = ""
	s.mu.Unlock()
	s.notify()
}

// Initialize performs the one fetch a session gets. Later calls return the
// first call's result without touching the backend.
func (s *Store) Initialize(ctx context.Context) model.Op {
	s.loadOnce.Do(func() {
		s.loadOp = s.load(ctx, true)
	})
	return s.loadOp
}

// Reload replaces the list with the backend's copy. It is the only way a
// failed write gets corrected, and only runs when asked.
func (s *Store) Reload(ctx context.Context) model.Op {
	return s.load(ctx, false)
}

func (s *Store) load(ctx context.Context, initial bool) model.Op {
	s.mu.Lock()
	if initial {
		s.state.Loading = true
	}
	op := s.beginLocked(model.KindLoad, 0)
	s.mu.Unlock()
	s.notify()

	if initial && s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return s.finishLoad(op, nil, ctx.Err())
		}
	}

	items, err := s.api.List(ctx)
	return s.finishLoad(op, items, err)
}

func (s *Store) finishLoad(op model.Op, items []model.Item, err error) model.Op {
	s.mu.Lock()
	if err == nil {
		s.state.Items = make([]model.Item, len(items))
		copy(s.state.Items, items)
		s.state.Err = ""
		s.state.Loaded = true
		s.latest = make(map[int]model.Op)
		for _, it := range items {
			if it.ID > s.highWater {
				s.highWater = it.ID
			}
		}
	}
	s.state.Loading = false
	op = s.finishLocked(op, err)
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.log.Warn("load failed", "op", op.ID, "err", op.Err)
	} else {
		s.log.Info("loaded items", "op", op.ID, "count", len(items))
	}
	return op
}

// Add appends a new unchecked item and posts it. Labels that are empty after
// trimming are ignored and ok is false.
func (s *Store) Add(ctx context.Context, label string) (op model.Op, ok bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Op{}, false
	}

	s.mu.Lock()
	it := model.Item{ID: s.nextIDLocked(), Label: label}
	s.state.Items = append(s.state.Items, it)
	op = s.beginLocked(model.KindAdd, it.ID)
	s.mu.Unlock()
	s.notify()

	return s.finish(op, s.api.Create(ctx, it)), true
}

// Toggle flips the checked flag of item id and patches the new value.
// Unknown ids are ignored and ok is false.
func (s *Store) Toggle(ctx context.Context, id int) (op model.Op, ok bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Op{}, false
	}
	s.state.Items[i].Checked = !s.state.Items[i].Checked
	checked := s.state.Items[i].Checked
	op = s.beginLocked(model.KindToggle, id)
	s.mu.Unlock()
	s.notify()

	return s.finish(op, s.api.SetChecked(ctx, id, checked)), true
}

// Remove drops item id and deletes it remotely. Removing an id that is not
// in the list is a no-op and ok is false.
func (s *Store) Remove(ctx context.Context, id int) (op model.Op, ok bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Op{}, false
	}
	items := make([]model.Item, 0, len(s.state.Items)-1)
	items = append(items, s.state.Items[:i]...)
	s.state.Items = append(items, s.state.Items[i+1:]...)
	op = s.beginLocked(model.KindRemove, id)
	delete(s.latest, id)
	s.mu.Unlock()
	s.notify()

	return s.finish(op, s.api.Delete(ctx, id)), true
}

func (s *Store) finish(op model.Op, err error) model.Op {
	s.mu.Lock()
	op = s.finishLocked(op, err)
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.log.Warn("write failed, keeping local change", "op", op.ID, "kind", op.Kind.String(), "item", op.ItemID, "err", op.Err)
	} else {
		s.log.Debug("write committed", "op", op.ID, "kind", op.Kind.String(), "item", op.ItemID)
	}
	return op
}

// beginLocked records a pending op. Caller holds mu.
func (s *Store) beginLocked(kind model.Kind, itemID int) model.Op {
	op := model.Op{ID: s.newOpID(), Kind: kind, ItemID: itemID, Status: model.StatusPending}
	s.ops = append(s.ops, op)
	if len(s.ops) > s.opLimit {
		s.ops = append([]model.Op(nil), s.ops[len(s.ops)-s.opLimit:]...)
	}
	if itemID != 0 {
		s.latest[itemID] = op
	}
	return op
}

// finishLocked settles op and fills the error slot on failure. Caller holds mu.
func (s *Store) finishLocked(op model.Op, err error) model.Op {
	if err != nil {
		op.Status = model.StatusFailed
		op.Err = remote.Message(err)
		s.state.Err = op.Err
	} else {
		op.Status = model.StatusCommitted
	}
	for i := len(s.ops) - 1; i >= 0; i-- {
		if s.ops[i].ID == op.ID {
			s.ops[i] = op
			break
		}
	}
	// A later op on the same item owns its status now.
	if cur, ok := s.latest[op.ItemID]; ok && cur.ID == op.ID {
		s.latest[op.ItemID] = op
	}
	return op
}

func (s *Store) indexLocked(id int) int {
	for i, it := range s.state.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextIDLocked() int {
	id := 1
	for _, it := range s.state.Items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	if s.policy == IDPolicyMonotonic && s.highWater >= id {
		id = s.highWater + 1
	}
	if id > s.highWater {
		s.highWater = id
	}
	return id
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
