package nechronica

import "github.com/samber/lo"

// RegionSummary tallies one body region: its parts and the maneuvers
// attached to it.
type RegionSummary struct {
	Position         Position
	Label            string
	IntactParts      int
	DamagedParts     int
	Maneuvers        int
	UsedManeuvers    int
	DamagedManeuvers int
}

// Regions summarizes s per body region in PositionOrder.
func (s *Sheet) Regions() []RegionSummary {
	out := make([]RegionSummary, 0, len(PositionOrder))
	for _, pos := range PositionOrder {
		r := RegionSummary{Position: pos, Label: PositionLabel(pos)}
		if s != nil {
			for _, p := range s.Parts {
				if p.Position != pos {
					continue
				}
				if p.Damage > 0 {
					r.DamagedParts++
				} else {
					r.IntactParts++
				}
			}
			for _, m := range s.Maneuvers {
				if m.Attachment != Attachment(pos) {
					continue
				}
				r.Maneuvers++
				if m.Used {
					r.UsedManeuvers++
				}
				if m.Damaged {
					r.DamagedManeuvers++
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// IndexedManeuver pairs a maneuver with its position in Sheet.Maneuvers,
// which is the index local commands address it by.
type IndexedManeuver struct {
	Index int
	Maneuver
}

// ManeuverGroup is every maneuver sharing one attachment.
type ManeuverGroup struct {
	Attachment Attachment
	Label      string
	Items      []IndexedManeuver
}

// Groups buckets maneuvers by attachment in AttachmentOrder, skipping empty
// groups. Sheet order is kept within a group.
func (s *Sheet) Groups() []ManeuverGroup {
	if s == nil {
		return nil
	}
	indexed := lo.Map(s.Maneuvers, func(m Maneuver, i int) IndexedManeuver {
		return IndexedManeuver{Index: i, Maneuver: m}
	})
	byAttachment := lo.GroupBy(indexed, func(im IndexedManeuver) Attachment {
		return im.Attachment
	})
	groups := lo.FilterMap(AttachmentOrder, func(a Attachment, _ int) (ManeuverGroup, bool) {
		items, ok := byAttachment[a]
		return ManeuverGroup{Attachment: a, Label: AttachmentLabel(a), Items: items}, ok
	})
	return groups
}
