package nechronica

// Static knowledge of how the character-sheet site lays out a doll. These
// tables are data only; the extraction code walks them.

// NamePlaceholder is used when the payload carries no character name.
const NamePlaceholder = "名前不明"

// UnknownValue fills a maneuver's timing or range when the payload has none.
const UnknownValue = "不明"

// nameKeys are tried in order for the character name.
var nameKeys = []string{"pc_name", "characterName"}

type profileLine struct {
	key   string
	label string
}

// profileLines are emitted in this order, each only when non-empty.
var profileLines = []profileLine{
	{key: "sex", label: "性別"},
	{key: "Position_Name", label: "ポジション"},
	{key: "MCLS_Name", label: "メインクラス"},
	{key: "SCLS_Name", label: "サブクラス"},
	{key: "pc_tags", label: "タグ"},
}

// AbilityDef names one ability score.
type AbilityDef struct {
	Key   string
	Label string
}

// AbilityTable lists the six ability scores in display order. Key is both
// the raw payload field and the JSON key of the normalized score.
var AbilityTable = []AbilityDef{
	{Key: "muscle", Label: "筋力"},
	{Key: "dexterity", Label: "器用"},
	{Key: "sense", Label: "感覚"},
	{Key: "knowledge", Label: "知識"},
	{Key: "exercise", Label: "運動"},
	{Key: "information", Label: "情報"},
}

type partDef struct {
	key      string
	name     string
	position Position
}

// bodyPartTable maps the site's per-part alive flags to named parts.
var bodyPartTable = []partDef{
	{key: "nou_alive", name: "脳", position: PositionHead},
	{key: "medama_alive", name: "眼", position: PositionHead},
	{key: "kuchi_alive", name: "口", position: PositionHead},
	{key: "migi_ude_alive", name: "右腕", position: PositionArm},
	{key: "hidari_ude_alive", name: "左腕", position: PositionArm},
	{key: "mune_alive", name: "胸", position: PositionBody},
	{key: "hara_alive", name: "腹", position: PositionBody},
	{key: "koshi_alive", name: "腰", position: PositionBody},
	{key: "migi_ashi_alive", name: "右脚", position: PositionLeg},
	{key: "hidari_ashi_alive", name: "左脚", position: PositionLeg},
}

type skillDef struct {
	key  string
	name string
}

var skillTable = []skillDef{
	{key: "Skill_Hakuhei", name: "白兵"},
	{key: "Skill_Syageki", name: "射撃"},
	{key: "Skill_Henni", name: "変異"},
	{key: "Skill_Kaizou", name: "改造"},
}

// Parallel arrays that together describe the maneuver list.
const (
	keyPowerName      = "Power_name"
	keyPowerMemo      = "Power_memo"
	keyPowerCost      = "Power_cost"
	keyPowerTiming    = "Power_timing"
	keyPowerRange     = "Power_range"
	keyPowerHantei    = "Power_hantei"
	keyPowerShozoku   = "Power_shozoku"
	keyMemoryName     = "carma_name"
	keyMemoryMemo     = "carma_memo"
	keyTreasureName   = "roice_name"
	keyTreasureMemo   = "roice_memo"
	maxPowerTypeCode  = PowerTypeMove
	defaultAttachment = AttachmentBody
)

// attachmentByCode decodes Power_hantei. Unlisted codes fall back to body.
var attachmentByCode = map[int]Attachment{
	1: AttachmentPosition,
	2: AttachmentMainClass,
	3: AttachmentSubClass,
	4: AttachmentHead,
	5: AttachmentArm,
	6: AttachmentBody,
	7: AttachmentLeg,
}

// AttachmentOrder is the display order of maneuver groups.
var AttachmentOrder = []Attachment{
	AttachmentPosition,
	AttachmentMainClass,
	AttachmentSubClass,
	AttachmentHead,
	AttachmentArm,
	AttachmentBody,
	AttachmentLeg,
}

// PositionOrder is the display order of body regions.
var PositionOrder = []Position{PositionHead, PositionArm, PositionBody, PositionLeg}

var attachmentLabels = map[Attachment]string{
	AttachmentPosition:  "ポジション",
	AttachmentMainClass: "メインクラス",
	AttachmentSubClass:  "サブクラス",
	AttachmentHead:      "頭部",
	AttachmentArm:       "腕部",
	AttachmentBody:      "胴体",
	AttachmentLeg:       "脚部",
}

var powerTypeLabels = [...]string{
	PowerTypeNone:      "なし",
	PowerTypeNormal:    "通常",
	PowerTypeNecessary: "必殺技",
	PowerTypeAction:    "行動値増加",
	PowerTypeSupport:   "補助",
	PowerTypeHindrance: "妨害",
	PowerTypeDefense:   "防御/生贄",
	PowerTypeMove:      "移動",
}

// AttachmentLabel returns the display name of a, or a itself when unknown.
func AttachmentLabel(a Attachment) string {
	if l, ok := attachmentLabels[a]; ok {
		return l
	}
	return string(a)
}

// PositionLabel returns the display name of a body region.
func PositionLabel(p Position) string {
	return AttachmentLabel(Attachment(p))
}

// PowerTypeLabel returns the display name of a power type code.
func PowerTypeLabel(code int) string {
	if code < 0 || code >= len(powerTypeLabels) {
		return powerTypeLabels[PowerTypeNone]
	}
	return powerTypeLabels[code]
}

// ValidAttachment reports whether a is one of the seven known groups.
func ValidAttachment(a Attachment) bool {
	_, ok := attachmentLabels[a]
	return ok
}

// Get returns the score for an AbilityTable key, or 0 for an unknown key.
func (a Abilities) Get(key string) int {
	switch key {
	case "muscle":
		return a.Muscle
	case "dexterity":
		return a.Dexterity
	case "sense":
		return a.Sense
	case "knowledge":
		return a.Knowledge
	case "exercise":
		return a.Exercise
	case "information":
		return a.Information
	default:
		return 0
	}
}

func (a *Abilities) set(key string, v int) {
	switch key {
	case "muscle":
		a.Muscle = v
	case "dexterity":
		a.Dexterity = v
	case "sense":
		a.Sense = v
	case "knowledge":
		a.Knowledge = v
	case "exercise":
		a.Exercise = v
	case "information":
		a.Information = v
	}
}
