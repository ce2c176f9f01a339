package nechronica

import (
	"fmt"
	"strings"

	"dollsheet/internal/field"
)

// ParseError reports that extraction failed unexpectedly. Normalize recovers
// from panics and returns one of these instead of crashing the caller.
type ParseError struct {
	Cause any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse character data: %v", e.Cause)
}

// Unwrap exposes Cause when it is an error.
func (e *ParseError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Normalize converts a raw export into a Sheet. It reads every field through
// the total accessors in package field, so missing or mistyped fields degrade
// to defaults. Either a complete Sheet or a *ParseError is returned.
func Normalize(raw Raw) (sheet *Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet = nil
			err = &ParseError{Cause: r}
		}
	}()

	s := &Sheet{
		Name:      firstString(raw, nameKeys...),
		Age:       firstString(raw, "age"),
		Height:    firstString(raw, "pc_height", "height"),
		Weight:    firstString(raw, "pc_weight", "weight"),
		Profile:   buildProfile(raw),
		Notes:     firstString(raw, "pc_memo", "notes"),
		Position:  firstString(raw, "Position_Name"),
		MainClass: firstString(raw, "MCLS_Name"),
		SubClass:  firstString(raw, "SCLS_Name"),

		Abilities:       parseAbilities(raw),
		Parts:           parseParts(raw),
		Skills:          parseSkills(raw),
		Maneuvers:       parseManeuvers(raw),
		MemoryFragments: parseNotes(raw, keyMemoryName, keyMemoryMemo),
		Treasures:       parseNotes(raw, keyTreasureName, keyTreasureMemo),
	}
	if s.Name == "" {
		s.Name = NamePlaceholder
	}
	return s, nil
}

// firstString returns the first non-blank string found under keys, trimmed.
func firstString(raw Raw, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(field.AsString(raw[k], "")); v != "" {
			return v
		}
	}
	return ""
}

func buildProfile(raw Raw) string {
	lines := make([]string, 0, len(profileLines))
	for _, pl := range profileLines {
		v := firstString(raw, pl.key)
		if v == "" {
			// tags are sometimes exported as a list
			v = strings.Join(nonBlank(field.AsList[string](raw[pl.key])), " ")
		}
		if v != "" {
			lines = append(lines, pl.label+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func nonBlank(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseAbilities(raw Raw) Abilities {
	var a Abilities
	for _, def := range AbilityTable {
		a.set(def.Key, field.AsInt(raw[def.Key], 0))
	}
	return a
}

// parseParts always yields one entry per bodyPartTable row. A part is intact
// only when its flag is exactly the string "1".
func parseParts(raw Raw) []BodyPart {
	parts := make([]BodyPart, 0, len(bodyPartTable))
	for _, def := range bodyPartTable {
		damage := 1
		if flag, ok := raw[def.key].(string); ok && flag == "1" {
			damage = 0
		}
		parts = append(parts, BodyPart{Name: def.name, Position: def.position, Damage: damage})
	}
	return parts
}

func parseSkills(raw Raw) []Skill {
	skills := make([]Skill, 0, len(skillTable))
	for _, def := range skillTable {
		skills = append(skills, Skill{Name: def.name, Level: field.AsInt(raw[def.key], 0)})
	}
	return skills
}

// parseManeuvers zips the Power_* arrays by index. Only the name array
// decides whether an entry exists; every sibling array is read at the same
// index and defaulted on its own when short or mistyped.
func parseManeuvers(raw Raw) []Maneuver {
	names := field.AsList[any](raw[keyPowerName])
	memos := field.AsList[any](raw[keyPowerMemo])
	costs := field.AsList[any](raw[keyPowerCost])
	timings := field.AsList[any](raw[keyPowerTiming])
	ranges := field.AsList[any](raw[keyPowerRange])
	hantei := field.AsList[any](raw[keyPowerHantei])
	shozoku := field.AsList[any](raw[keyPowerShozoku])

	maneuvers := make([]Maneuver, 0, len(names))
	for i := range names {
		name := strings.TrimSpace(field.AsListItemString(names, i, ""))
		if name == "" {
			continue
		}
		maneuvers = append(maneuvers, Maneuver{
			Name:        name,
			Cost:        field.AsInt(field.AsListItem(costs, i), 0),
			Timing:      orUnknown(field.AsListItemString(timings, i, "")),
			Range:       orUnknown(field.AsListItemString(ranges, i, "")),
			Description: field.AsListItemString(memos, i, ""),
			Attachment:  DecodeAttachment(field.AsListItem(hantei, i)),
			PowerType:   DecodePowerType(field.AsListItem(shozoku, i)),
		})
	}
	return maneuvers
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownValue
	}
	return s
}

// DecodeAttachment maps a raw attachment code to its group. Codes 1 through
// 7 are position, main-class, sub-class, head, arm, body and leg; anything
// else, including a missing code, is body.
func DecodeAttachment(code any) Attachment {
	if a, ok := attachmentByCode[field.AsInt(code, 0)]; ok {
		return a
	}
	return defaultAttachment
}

// DecodePowerType maps a raw power type code to 0-7, with 0 for anything
// outside that range.
func DecodePowerType(code any) int {
	n := field.AsInt(code, PowerTypeNone)
	if n < PowerTypeNone || n > maxPowerTypeCode {
		return PowerTypeNone
	}
	return n
}

func parseNotes(raw Raw, nameKey, memoKey string) []NamedNote {
	names := field.AsList[any](raw[nameKey])
	memos := field.AsList[any](raw[memoKey])

	notes := make([]NamedNote, 0, len(names))
	for i := range names {
		name := strings.TrimSpace(field.AsListItemString(names, i, ""))
		if name == "" {
			continue
		}
		notes = append(notes, NamedNote{
			Name:        name,
			Description: field.AsListItemString(memos, i, ""),
		})
	}
	return notes
}
