package nechronica

import "slices"

// Raw is an untyped record decoded from the character-sheet site's export.
// Nothing about its shape is guaranteed.
type Raw = map[string]any

// Position is the body region a part belongs to.
type Position string

const (
	PositionHead Position = "head"
	PositionArm  Position = "arm"
	PositionBody Position = "body"
	PositionLeg  Position = "leg"
)

// Attachment is the group a maneuver is organized under: one of the three
// role slots or one of the four body regions.
type Attachment string

const (
	AttachmentPosition  Attachment = "position"
	AttachmentMainClass Attachment = "main-class"
	AttachmentSubClass  Attachment = "sub-class"
	AttachmentHead      Attachment = "head"
	AttachmentArm       Attachment = "arm"
	AttachmentBody      Attachment = "body"
	AttachmentLeg       Attachment = "leg"
)

// Power type codes classify what a maneuver does mechanically.
const (
	PowerTypeNone      = 0
	PowerTypeNormal    = 1
	PowerTypeNecessary = 2 // 必殺技
	PowerTypeAction    = 3 // 行動値増加
	PowerTypeSupport   = 4
	PowerTypeHindrance = 5
	PowerTypeDefense   = 6 // 防御/生贄
	PowerTypeMove      = 7
)

// Sheet is a normalized Nechronica doll. A Sheet produced by Normalize is
// never mutated; local edits live in an Overlay.
type Sheet struct {
	Name    string `json:"name"`
	Age     string `json:"age,omitempty"`
	Height  string `json:"height,omitempty"`
	Weight  string `json:"weight,omitempty"`
	Profile string `json:"profile"`
	Notes   string `json:"notes,omitempty"`

	// Role names kept alongside Profile so symbol icons can be resolved.
	Position  string `json:"position,omitempty"`
	MainClass string `json:"mainClass,omitempty"`
	SubClass  string `json:"subClass,omitempty"`

	Abilities       Abilities   `json:"abilities"`
	Parts           []BodyPart  `json:"parts"`
	Skills          []Skill     `json:"skills"`
	Maneuvers       []Maneuver  `json:"maneuvers"`
	MemoryFragments []NamedNote `json:"memoryFragments"`
	Treasures       []NamedNote `json:"treasures"`
}

// Abilities holds the six ability scores. Every score is present; a score
// missing from the payload is 0.
type Abilities struct {
	Muscle      int `json:"muscle"`
	Dexterity   int `json:"dexterity"`
	Sense       int `json:"sense"`
	Knowledge   int `json:"knowledge"`
	Exercise    int `json:"exercise"`
	Information int `json:"information"`
}

// BodyPart is one anatomical part and whether it is damaged (1) or intact (0).
type BodyPart struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Damage   int      `json:"damage"`
}

// Skill is one of the four fixed combat skills.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Maneuver is a special action. Used and Damaged are session-local state and
// are always false straight out of Normalize.
type Maneuver struct {
	Name        string     `json:"name"`
	Cost        int        `json:"cost"`
	Timing      string     `json:"timing"`
	Range       string     `json:"range"`
	Description string     `json:"description"`
	Attachment  Attachment `json:"attachment"`
	PowerType   int        `json:"powerType"`
	Used        bool       `json:"used"`
	Damaged     bool       `json:"damaged"`
}

// NamedNote is a memory fragment or a treasure.
type NamedNote struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Clone returns a deep copy of s.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	c := *s
	c.Parts = slices.Clone(s.Parts)
	c.Skills = slices.Clone(s.Skills)
	c.Maneuvers = slices.Clone(s.Maneuvers)
	c.MemoryFragments = slices.Clone(s.MemoryFragments)
	c.Treasures = slices.Clone(s.Treasures)
	return &c
}
