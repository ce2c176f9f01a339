// Package icons resolves display asset paths for a normalized sheet. Every
// function is pure: the same inputs always give the same path, which keeps
// rendered pages stable for golden-file comparison.
package icons

import (
	"strconv"
	"strings"

	"dollsheet/internal/nechronica"
)

// Root is the URL prefix every asset path starts with.
const Root = "/static/nechronica"

// BasePart is one entry of the maneuver-name vocabulary. A maneuver whose
// name contains either spelling gets the base part's icon.
type BasePart struct {
	Slug     string
	Spelling [2]string
}

// BaseParts is searched in order and the first hit wins, so a name holding
// two terms resolves to whichever comes first here.
var BaseParts = []BasePart{
	{Slug: "brain", Spelling: [2]string{"のうみそ", "脳"}},
	{Slug: "eye", Spelling: [2]string{"めだま", "眼"}},
	{Slug: "jaw", Spelling: [2]string{"あご", "顎"}},
	{Slug: "fist", Spelling: [2]string{"こぶし", "拳"}},
	{Slug: "arm", Spelling: [2]string{"うで", "腕"}},
	{Slug: "shoulder", Spelling: [2]string{"かた", "肩"}},
	{Slug: "spine", Spelling: [2]string{"せぼね", "背骨"}},
	{Slug: "viscera", Spelling: [2]string{"はらわた", "内臓"}},
	{Slug: "bone", Spelling: [2]string{"ほね", "骨"}},
	{Slug: "leg", Spelling: [2]string{"あし", "脚"}},
}

// backgroundNames is indexed by power type code.
var backgroundNames = [...]string{
	nechronica.PowerTypeNone:      "none",
	nechronica.PowerTypeNormal:    "normal",
	nechronica.PowerTypeNecessary: "necessary-skill",
	nechronica.PowerTypeAction:    "action",
	nechronica.PowerTypeSupport:   "support",
	nechronica.PowerTypeHindrance: "hindrance",
	nechronica.PowerTypeDefense:   "defense",
	nechronica.PowerTypeMove:      "move",
}

var positionFiles = map[string]string{
	"アリス":    "alice",
	"オートマトン": "automaton",
	"コート":    "court",
	"ホリック":   "holic",
	"ジャンク":   "junk",
	"ソロリティ":  "sorority",
}

var classFiles = map[string]string{
	"バロック":    "baroque",
	"ゴシック":    "gothic",
	"サイケデリック": "psychedelic",
	"レクイエム":   "requiem",
	"ロマネスク":   "romanesque",
	"ステイシー":   "stacy",
	"タナトス":    "thanatos",
}

const (
	defaultPosition = "alice"
	defaultClass    = "gothic"
)

// MatchBasePart returns the first vocabulary entry whose spelling occurs in
// name.
func MatchBasePart(name string) (BasePart, bool) {
	for _, bp := range BaseParts {
		for _, term := range bp.Spelling {
			if strings.Contains(name, term) {
				return bp, true
			}
		}
	}
	return BasePart{}, false
}

func basePartPath(slug string) string {
	return Root + "/icons/base/" + slug + ".png"
}

func regionPath(region string) string {
	return Root + "/icons/part/" + region + ".png"
}

const (
	skillPath   = Root + "/icons/skill.png"
	unknownPath = Root + "/icons/unknown.png"
)

// ActionIconPath picks a maneuver's icon. A vocabulary match on the name
// takes precedence; otherwise the attachment decides, with the three role
// slots sharing the generic skill icon.
func ActionIconPath(name string, attachment nechronica.Attachment) string {
	if bp, ok := MatchBasePart(name); ok {
		return basePartPath(bp.Slug)
	}
	switch attachment {
	case nechronica.AttachmentHead, nechronica.AttachmentArm, nechronica.AttachmentBody, nechronica.AttachmentLeg:
		return regionPath(string(attachment))
	case nechronica.AttachmentPosition, nechronica.AttachmentMainClass, nechronica.AttachmentSubClass:
		return skillPath
	default:
		return unknownPath
	}
}

func backgroundPath(code int) string {
	return Root + "/backgrounds/type" + strconv.Itoa(code) + "-" + backgroundNames[code] + ".png"
}

// ActionBackgroundPath maps a power type code to its card background. Codes
// outside 0-7 get the type 0 background.
func ActionBackgroundPath(powerType int) string {
	if powerType < 0 || powerType >= len(backgroundNames) {
		powerType = nechronica.PowerTypeNone
	}
	return backgroundPath(powerType)
}

// PositionIconPath returns the symbol for a position name, defaulting to alice.
func PositionIconPath(position string) string {
	f, ok := positionFiles[strings.TrimSpace(position)]
	if !ok {
		f = defaultPosition
	}
	return Root + "/position/" + f + ".png"
}

// ClassIconPath returns the symbol for a class name, defaulting to gothic.
func ClassIconPath(class string) string {
	f, ok := classFiles[strings.TrimSpace(class)]
	if !ok {
		f = defaultClass
	}
	return Root + "/class/" + f + ".png"
}

// StatusIconPath returns the marker for a maneuver's local flags. Damaged
// is shown over used; with neither flag set there is no marker.
func StatusIconPath(used, damaged bool) string {
	switch {
	case damaged:
		return Root + "/status/damaged.png"
	case used:
		return Root + "/status/used.png"
	default:
		return ""
	}
}

// Symbol is one role icon shown next to the character name.
type Symbol struct {
	Kind string // "position" or "class"
	Name string
	Path string
}

// Symbols lists the role icons for a sheet: position first, then the main
// class, then the sub-class only when it differs from the main class.
func Symbols(position, mainClass, subClass string) []Symbol {
	var out []Symbol
	if position != "" {
		out = append(out, Symbol{Kind: "position", Name: position, Path: PositionIconPath(position)})
	}
	if mainClass != "" {
		out = append(out, Symbol{Kind: "class", Name: mainClass, Path: ClassIconPath(mainClass)})
	}
	if subClass != "" && subClass != mainClass {
		out = append(out, Symbol{Kind: "class", Name: subClass, Path: ClassIconPath(subClass)})
	}
	return out
}
