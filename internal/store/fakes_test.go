package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/idilsaglam/grocery/internal/model"
)

// stubAPI answers every call straight away and records what it saw.
type stubAPI struct {
	mu        sync.Mutex
	items     []model.Item
	listErr   error
	createErr error
	patchErr  error
	deleteErr error
	calls     []string
}

func (s *stubAPI) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) List(context.Context) ([]model.Item, error) {
	s.record("GET")
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.Item(nil), s.items...), nil
}

func (s *stubAPI) Create(_ context.Context, it model.Item) error {
	s.record("POST %d %s", it.ID, it.Label)
	return s.createErr
}

func (s *stubAPI) SetChecked(_ context.Context, id int, checked bool) error {
	s.record("PATCH %d %t", id, checked)
	return s.patchErr
}

func (s *stubAPI) Delete(_ context.Context, id int) error {
	s.record("DELETE %d", id)
	return s.deleteErr
}

// gatedAPI hands every call to the test over a channel and blocks until the
// test replies, so the state in between can be inspected.
type gatedAPI struct {
	calls chan *gatedCall
}

type gatedCall struct {
	method  string
	item    model.Item
	id      int
	checked bool
	reply   chan gatedReply
}

type gatedReply struct {
	items []model.Item
	err   error
}

func newGatedAPI() *gatedAPI {
	return &gatedAPI{calls: make(chan *gatedCall)}
}

func (g *gatedAPI) roundTrip(c *gatedCall) gatedReply {
	c.reply = make(chan gatedReply, 1)
	g.calls <- c
	return <-c.reply
}

func (g *gatedAPI) List(context.Context) ([]model.Item, error) {
	r := g.roundTrip(&gatedCall{method: "list"})
	return r.items, r.err
}

func (g *gatedAPI) Create(_ context.Context, it model.Item) error {
	return g.roundTrip(&gatedCall{method: "create", item: it, id: it.ID}).err
}

func (g *gatedAPI) SetChecked(_ context.Context, id int, checked bool) error {
	return g.roundTrip(&gatedCall{method: "patch", id: id, checked: checked}).err
}

func (g *gatedAPI) Delete(_ context.Context, id int) error {
	return g.roundTrip(&gatedCall{method: "delete", id: id}).err
}

func (g *gatedAPI) expect(t *testing.T, method string) *gatedCall {
	t.Helper()
	select {
	case c := <-g.calls:
		if c.method != method {
			t.Fatalf("expected %s call, got %s", method, c.method)
		}
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s call", method)
		return nil
	}
}

func (c *gatedCall) respond(items []model.Item, err error) {
	c.reply <- gatedReply{items: items, err: err}
}

func waitOp(t *testing.T, ch <-chan model.Op) model.Op {
	t.Helper()
	select {
	case op := <-ch:
		return op
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for operation to finish")
		return model.Op{}
	}
}
