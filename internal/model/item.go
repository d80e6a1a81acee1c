package model

// Item is a single grocery entry. The label travels as "item" on the wire,
// which is what the backend has always called it.
type Item struct {
	ID      int    `json:"id"`
	Checked bool   `json:"checked"`
	Label   string `json:"item"`
}

// State is a snapshot of the client-side list.
type State struct {
	Items   []Item
	Loading bool
	Loaded  bool   // a fetch has succeeded at least once
	Err     string // last error, empty when none
}

// Clone returns a copy whose Items slice does not alias the receiver's.
func (s State) Clone() State {
	out := s
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}
