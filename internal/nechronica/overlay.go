package nechronica

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrManeuverIndex is returned for a command aimed at a maneuver that does
// not exist on the sheet.
var ErrManeuverIndex = errors.New("maneuver index out of range")

// ErrInvalidPatch is returned when a patch would leave a maneuver in a state
// Normalize could never produce.
var ErrInvalidPatch = errors.New("invalid maneuver patch")

// StatusField names one of the two local maneuver flags.
type StatusField string

const (
	StatusUsed    StatusField = "used"
	StatusDamaged StatusField = "damaged"
)

// ParseStatusField accepts "used" or "damaged".
func ParseStatusField(s string) (StatusField, bool) {
	switch StatusField(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUsed:
		return StatusUsed, true
	case StatusDamaged:
		return StatusDamaged, true
	}
	return "", false
}

// ManeuverStatus is the pair of local flags for one maneuver. The two flags
// are independent; setting one never changes the other.
type ManeuverStatus struct {
	Used    bool `json:"used"`
	Damaged bool `json:"damaged"`
}

// ManeuverPatch is a partial edit of a maneuver. Nil fields are left alone.
// The local status flags are not editable through a patch.
type ManeuverPatch struct {
	Name        *string     `json:"name,omitempty"`
	Cost        *int        `json:"cost,omitempty"`
	Timing      *string     `json:"timing,omitempty"`
	Range       *string     `json:"range,omitempty"`
	Description *string     `json:"description,omitempty"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	PowerType   *int        `json:"powerType,omitempty"`
}

func (p ManeuverPatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name is blank", ErrInvalidPatch)
	}
	if p.Attachment != nil && !ValidAttachment(*p.Attachment) {
		return fmt.Errorf("%w: unknown attachment %q", ErrInvalidPatch, *p.Attachment)
	}
	if p.PowerType != nil && (*p.PowerType < PowerTypeNone || *p.PowerType > maxPowerTypeCode) {
		return fmt.Errorf("%w: power type %d", ErrInvalidPatch, *p.PowerType)
	}
	return nil
}

// merge layers next on top of p.
func (p ManeuverPatch) merge(next ManeuverPatch) ManeuverPatch {
	if next.Name != nil {
		p.Name = next.Name
	}
	if next.Cost != nil {
		p.Cost = next.Cost
	}
	if next.Timing != nil {
		p.Timing = next.Timing
	}
	if next.Range != nil {
		p.Range = next.Range
	}
	if next.Description != nil {
		p.Description = next.Description
	}
	if next.Attachment != nil {
		p.Attachment = next.Attachment
	}
	if next.PowerType != nil {
		p.PowerType = next.PowerType
	}
	return p
}

func (p ManeuverPatch) applyTo(m *Maneuver) {
	if p.Name != nil {
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Cost != nil {
		m.Cost = *p.Cost
	}
	if p.Timing != nil {
		m.Timing = *p.Timing
	}
	if p.Range != nil {
		m.Range = *p.Range
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Attachment != nil {
		m.Attachment = *p.Attachment
	}
	if p.PowerType != nil {
		m.PowerType = *p.PowerType
	}
}

// Overlay is the session-local layer over a normalized Sheet, keyed by
// maneuver index. A fresh fetch starts from an empty Overlay, so every flag
// resets to false.
type Overlay struct {
	Status map[int]ManeuverStatus `json:"status,omitempty"`
	Edits  map[int]ManeuverPatch  `json:"edits,omitempty"`
}

func checkIndex(s *Sheet, index int) error {
	if s == nil || index < 0 || index >= len(s.Maneuvers) {
		return fmt.Errorf("%w: %d", ErrManeuverIndex, index)
	}
	return nil
}

// SetStatus records one local flag for the maneuver at index.
func (o *Overlay) SetStatus(s *Sheet, index int, f StatusField, value bool) error {
	if err := checkIndex(s, index); err != nil {
		return err
	}
	st := o.Status[index]
	switch f {
	case StatusUsed:
		st.Used = value
	case StatusDamaged:
		st.Damaged = value
	default:
		return fmt.Errorf("unknown status field %q", f)
	}
	if o.Status == nil {
		o.Status = map[int]ManeuverStatus{}
	}
	o.Status[index] = st
	return nil
}

// ApplyEdit records a patch for the maneuver at index, layered over any
// earlier edits.
func (o *Overlay) ApplyEdit(s *Sheet, index int, p ManeuverPatch) error {
	if err := checkIndex(s, index); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	if o.Edits == nil {
		o.Edits = map[int]ManeuverPatch{}
	}
	o.Edits[index] = o.Edits[index].merge(p)
	return nil
}

// Apply returns a copy of s with edits and flags from o applied. s itself is
// left untouched.
func (o Overlay) Apply(s *Sheet) *Sheet {
	out := s.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Maneuvers {
		if p, ok := o.Edits[i]; ok {
			p.applyTo(&out.Maneuvers[i])
		}
		if st, ok := o.Status[i]; ok {
			out.Maneuvers[i].Used = st.Used
			out.Maneuvers[i].Damaged = st.Damaged
		}
	}
	return out
}

// Clone returns an Overlay that shares no maps with o.
func (o Overlay) Clone() Overlay {
	var out Overlay
	if o.Status != nil {
		out.Status = maps.Clone(o.Status)
	}
	if o.Edits != nil {
		out.Edits = maps.Clone(o.Edits)
	}
	return out
}
