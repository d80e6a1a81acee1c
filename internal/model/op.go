package model

import "fmt"

// Kind names the mutation an Op records.
type Kind int

const (
	KindLoad Kind = iota
	KindAdd
	KindToggle
	KindRemove
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindAdd:
		return "add"
	case KindToggle:
		return "toggle"
	case KindRemove:
		return "remove"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status tracks where a mutation is in its round trip to the backend.
//
//	Pending ──[2xx]──► Committed
//	   │
//	   └──[error]──► Failed
//
// A Failed mutation is never rolled back locally; the list keeps the
// optimistic value until the next reload.
type Status int

const (
	// StatusNone means the item has no tracked mutation (loaded as-is).
	StatusNone Status = iota
	StatusPending
	StatusCommitted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusPending:
		return "pending"
	case StatusCommitted:
		return "committed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Op is the result of one store operation, handed back to the caller so it
// doesn't have to guess which request the shared error slot belongs to.
type Op struct {
	ID     string
	Kind   Kind
	ItemID int // zero for loads
	Status Status
	Err    string
}

// Failed reports whether the round trip ended in an error.
func (o Op) Failed() bool { return o.Status == StatusFailed }
