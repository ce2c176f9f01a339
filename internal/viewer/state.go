// Package viewer owns the per-session viewing state: the current sheet, its
// local overlay, the pending notice and the fetch generation counter.
package viewer

import (
	"dollsheet/internal/nechronica"
)

// NoticeKind selects how a notice is styled.
type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// Notice is a dismissible, non-fatal message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// State is stored per session. Sheet is never mutated once set; every
// change to it replaces the pointer.
type State struct {
	Generation uint64
	Pending    bool
	Input      string
	SheetID    string
	Sheet      *nechronica.Sheet
	Overlay    nechronica.Overlay
	Notice     *Notice
	UserID     string
}

// HasSheet reports whether a sheet has been loaded.
func (s State) HasSheet() bool { return s.Sheet != nil }

// View returns the sheet with the overlay applied, or nil.
func (s State) View() *nechronica.Sheet {
	if s.Sheet == nil {
		return nil
	}
	return s.Overlay.Apply(s.Sheet)
}
