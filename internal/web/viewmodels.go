package web

import (
	"strconv"

	"github.com/samber/lo"

	"dollsheet/internal/auth"
	"dollsheet/internal/icons"
	"dollsheet/internal/nechronica"
	"dollsheet/internal/viewer"
)

// PageViewModel is the data for layout.html.
type PageViewModel struct {
	Title  string
	User   *auth.User
	Notice *viewer.Notice
	Sheet  *SheetViewModel
	Input  InputViewModel
	Auth   *AuthViewModel
}

// InputViewModel drives the fetch form.
type InputViewModel struct {
	Identifier    string
	SampleSheetID string
	Pending       bool
	Errors        map[string]string
}

// SheetViewModel is a sheet ready for display.
type SheetViewModel struct {
	SheetID   string
	Sheet     *nechronica.Sheet
	Symbols   []icons.Symbol
	Abilities []AbilityRow
	Regions   []RegionViewModel
	Groups    []GroupViewModel
}

type AbilityRow struct {
	Label string
	Value int
}

type RegionViewModel struct {
	nechronica.RegionSummary
	Parts []nechronica.BodyPart
	Icon  string
}

type GroupViewModel struct {
	Label     string
	Maneuvers []ManeuverViewModel
}

// ManeuverViewModel is one maneuver card. Index addresses it in the
// status and edit routes.
type ManeuverViewModel struct {
	Index          int
	M              nechronica.Maneuver
	Icon           string
	Background     string
	StatusIcon     string
	PowerTypeLabel string
	Attachments    []Option
	PowerTypes     []Option
	Errors         map[string]string
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type AuthViewModel struct {
	Mode   string // "login" or "signup"
	Login  string
	Email  string
	Errors map[string]string
	Error  string
}

func newSheetViewModel(sheetID string, s *nechronica.Sheet) *SheetViewModel {
	if s == nil {
		return nil
	}
	vm := &SheetViewModel{
		SheetID: sheetID,
		Sheet:   s,
		Symbols: icons.Symbols(s.Position, s.MainClass, s.SubClass),
		Abilities: lo.Map(nechronica.AbilityTable, func(def nechronica.AbilityDef, _ int) AbilityRow {
			return AbilityRow{Label: def.Label, Value: s.Abilities.Get(def.Key)}
		}),
	}
	for _, r := range s.Regions() {
		vm.Regions = append(vm.Regions, RegionViewModel{
			RegionSummary: r,
			Parts: lo.Filter(s.Parts, func(p nechronica.BodyPart, _ int) bool {
				return p.Position == r.Position
			}),
			Icon: icons.ActionIconPath("", nechronica.Attachment(r.Position)),
		})
	}
	for _, g := range s.Groups() {
		vm.Groups = append(vm.Groups, GroupViewModel{
			Label: g.Label,
			Maneuvers: lo.Map(g.Items, func(im nechronica.IndexedManeuver, _ int) ManeuverViewModel {
				return newManeuverViewModel(im.Index, im.Maneuver)
			}),
		})
	}
	return vm
}

func newManeuverViewModel(index int, m nechronica.Maneuver) ManeuverViewModel {
	return ManeuverViewModel{
		Index:          index,
		M:              m,
		Icon:           icons.ActionIconPath(m.Name, m.Attachment),
		Background:     icons.ActionBackgroundPath(m.PowerType),
		StatusIcon:     icons.StatusIconPath(m.Used, m.Damaged),
		PowerTypeLabel: nechronica.PowerTypeLabel(m.PowerType),
		Attachments: lo.Map(nechronica.AttachmentOrder, func(a nechronica.Attachment, _ int) Option {
			return Option{Value: string(a), Label: nechronica.AttachmentLabel(a), Selected: a == m.Attachment}
		}),
		PowerTypes: lo.Map(lo.Range(nechronica.PowerTypeMove+1), func(code int, _ int) Option {
			return Option{Value: strconv.Itoa(code), Label: nechronica.PowerTypeLabel(code), Selected: code == m.PowerType}
		}),
	}
}
