package nechronica

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustNormalize(t *testing.T, raw Raw) *Sheet {
	t.Helper()
	s, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s == nil {
		t.Fatal("Normalize returned nil sheet")
	}
	return s
}

func TestNormalize_EndToEnd(t *testing.T) {
	raw := Raw{
		"pc_name":      "Test Doll",
		"muscle":       2,
		"Power_name":   []any{"Slash", "", "Dodge"},
		"Power_hantei": []any{4, 6, 1},
	}
	s := mustNormalize(t, raw)

	if s.Name != "Test Doll" {
		t.Errorf("Expected name 'Test Doll', got %q", s.Name)
	}
	if s.Abilities.Muscle != 2 {
		t.Errorf("Expected muscle 2, got %d", s.Abilities.Muscle)
	}
	want := []Maneuver{
		{Name: "Slash", Timing: UnknownValue, Range: UnknownValue, Attachment: AttachmentHead},
		{Name: "Dodge", Timing: UnknownValue, Range: UnknownValue, Attachment: AttachmentPosition},
	}
	if diff := cmp.Diff(want, s.Maneuvers); diff != "" {
		t.Errorf("Maneuvers mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_EmptyPayload(t *testing.T) {
	for _, raw := range []Raw{nil, {}} {
		s := mustNormalize(t, raw)
		if s.Name != NamePlaceholder {
			t.Errorf("Expected placeholder name, got %q", s.Name)
		}
		if s.Abilities != (Abilities{}) {
			t.Errorf("Expected zero abilities, got %+v", s.Abilities)
		}
		if len(s.Parts) != 10 {
			t.Errorf("Expected 10 parts, got %d", len(s.Parts))
		}
		for _, p := range s.Parts {
			if p.Damage != 1 {
				t.Errorf("Part %s: expected damaged without flag, got %d", p.Name, p.Damage)
			}
		}
		if len(s.Skills) != 4 {
			t.Errorf("Expected 4 skills, got %d", len(s.Skills))
		}
		if s.Maneuvers == nil || len(s.Maneuvers) != 0 {
			t.Errorf("Expected empty maneuver list, got %#v", s.Maneuvers)
		}
		if s.Profile != "" {
			t.Errorf("Expected empty profile, got %q", s.Profile)
		}
	}
}

func TestNormalize_NameFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want string
	}{
		{"pc_name wins", Raw{"pc_name": "A", "characterName": "B"}, "A"},
		{"second key", Raw{"characterName": "B"}, "B"},
		{"blank first key", Raw{"pc_name": "  ", "characterName": "B"}, "B"},
		{"non-string", Raw{"pc_name": 12}, NamePlaceholder},
		{"absent", Raw{}, NamePlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustNormalize(t, tt.raw).Name; got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalize_Profile(t *testing.T) {
	s := mustNormalize(t, Raw{
		"pc_tags":       "無口",
		"MCLS_Name":     "ステイシー",
		"sex":           "女",
		"Position_Name": "",
		"SCLS_Name":     "ロマネスク",
	})
	want := "性別: 女\nメインクラス: ステイシー\nサブクラス: ロマネスク\nタグ: 無口"
	if s.Profile != want {
		t.Errorf("Profile mismatch:\nwant %q\ngot  %q", want, s.Profile)
	}
	if s.MainClass != "ステイシー" || s.SubClass != "ロマネスク" || s.Position != "" {
		t.Errorf("Unexpected role fields: %q %q %q", s.Position, s.MainClass, s.SubClass)
	}
}

func TestNormalize_ProfileTagList(t *testing.T) {
	s := mustNormalize(t, Raw{"pc_tags": []any{"無口", " ", "甘党"}})
	if s.Profile != "タグ: 無口 甘党" {
		t.Errorf("Unexpected profile %q", s.Profile)
	}
}

func TestNormalize_Abilities(t *testing.T) {
	s := mustNormalize(t, Raw{
		"muscle":      "3",
		"dexterity":   1.0,
		"sense":       "abc",
		"knowledge":   nil,
		"exercise":    []any{},
		"information": true,
	})
	want := Abilities{Muscle: 3, Dexterity: 1, Sense: 0, Knowledge: 0, Exercise: 0, Information: 1}
	if s.Abilities != want {
		t.Errorf("Expected %+v, got %+v", want, s.Abilities)
	}
}

func TestNormalize_PartFlags(t *testing.T) {
	tests := []struct {
		name string
		flag any
		want int
	}{
		{"string one", "1", 0},
		{"number one", 1, 1},
		{"float one", 1.0, 1},
		{"true", true, 1},
		{"yes", "yes", 1},
		{"string zero", "0", 1},
		{"padded one", " 1", 1},
		{"nil", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNormalize(t, Raw{"nou_alive": tt.flag})
			if len(s.Parts) != 10 {
				t.Fatalf("Expected 10 parts, got %d", len(s.Parts))
			}
			if s.Parts[0].Name != "脳" || s.Parts[0].Position != PositionHead {
				t.Fatalf("Expected brain first, got %+v", s.Parts[0])
			}
			if s.Parts[0].Damage != tt.want {
				t.Errorf("Flag %#v: expected damage %d, got %d", tt.flag, tt.want, s.Parts[0].Damage)
			}
		})
	}
}

func TestNormalize_PartOrderIndependentOfPayload(t *testing.T) {
	raw := Raw{"hidari_ashi_alive": "1", "nou_alive": "1", "unrelated_alive": "1"}
	s := mustNormalize(t, raw)
	if len(s.Parts) != 10 {
		t.Fatalf("Expected 10 parts, got %d", len(s.Parts))
	}
	for i, def := range bodyPartTable {
		if s.Parts[i].Name != def.name {
			t.Errorf("Part %d: expected %s, got %s", i, def.name, s.Parts[i].Name)
		}
	}
	if s.Parts[0].Damage != 0 || s.Parts[9].Damage != 0 {
		t.Error("Expected brain and left leg intact")
	}
	if s.Parts[5].Damage != 1 {
		t.Error("Expected chest damaged")
	}
}

func TestNormalize_Skills(t *testing.T) {
	s := mustNormalize(t, Raw{"Skill_Hakuhei": "2", "Skill_Kaizou": 1})
	want := []Skill{{"白兵", 2}, {"射撃", 0}, {"変異", 0}, {"改造", 1}}
	if diff := cmp.Diff(want, s.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ManeuversKeepSiblingIndices(t *testing.T) {
	raw := Raw{
		"Power_name":    []any{"A", "  ", "  C  ", "D"},
		"Power_memo":    []any{"memo A", "memo B", "memo C"},
		"Power_cost":    []any{"1", 2, "3"},
		"Power_timing":  []any{"オート", "ラピッド", "アクション"},
		"Power_range":   []any{"自身", "", 0},
		"Power_hantei":  []any{"5", 2, 99},
		"Power_shozoku": []any{2, 3, "7", 1},
	}
	s := mustNormalize(t, raw)
	want := []Maneuver{
		{Name: "A", Cost: 1, Timing: "オート", Range: "自身", Description: "memo A", Attachment: AttachmentArm, PowerType: 2},
		{Name: "C", Cost: 3, Timing: "アクション", Range: UnknownValue, Description: "memo C", Attachment: AttachmentBody, PowerType: 7},
		{Name: "D", Cost: 0, Timing: UnknownValue, Range: UnknownValue, Description: "", Attachment: AttachmentBody, PowerType: 1},
	}
	if diff := cmp.Diff(want, s.Maneuvers); diff != "" {
		t.Errorf("Maneuvers mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ManeuverNonStringNames(t *testing.T) {
	s := mustNormalize(t, Raw{"Power_name": []any{nil, 3, "Real"}, "Power_cost": []any{9, 9, 4}})
	if len(s.Maneuvers) != 1 || s.Maneuvers[0].Name != "Real" || s.Maneuvers[0].Cost != 4 {
		t.Errorf("Unexpected maneuvers %+v", s.Maneuvers)
	}
}

func TestNormalize_ManeuverArraysWrongType(t *testing.T) {
	s := mustNormalize(t, Raw{"Power_name": "Slash", "carma_name": map[string]any{"0": "x"}})
	if len(s.Maneuvers) != 0 {
		t.Errorf("Expected no maneuvers from non-list names, got %d", len(s.Maneuvers))
	}
	if len(s.MemoryFragments) != 0 {
		t.Errorf("Expected no memory fragments from non-list names, got %d", len(s.MemoryFragments))
	}
}

func TestNormalize_TypedSlices(t *testing.T) {
	s := mustNormalize(t, Raw{
		"Power_name":    []string{"Slash", "", "Dodge"},
		"Power_cost":    []int{1, 5, 0},
		"Power_hantei":  []float64{4, 6, 1},
		"Power_shozoku": []int{2, 0, 6},
		"carma_name":    []string{"memory"},
		"carma_memo":    []string{"a warm hand"},
		"roice_name":    []string{"ribbon"},
	})
	want := []Maneuver{
		{Name: "Slash", Cost: 1, Timing: UnknownValue, Range: UnknownValue, Attachment: AttachmentHead, PowerType: 2},
		{Name: "Dodge", Cost: 0, Timing: UnknownValue, Range: UnknownValue, Attachment: AttachmentPosition, PowerType: 6},
	}
	if diff := cmp.Diff(want, s.Maneuvers); diff != "" {
		t.Errorf("Maneuvers mismatch (-want +got):\n%s", diff)
	}
	if len(s.MemoryFragments) != 1 || s.MemoryFragments[0].Description != "a warm hand" {
		t.Errorf("Unexpected memory fragments %+v", s.MemoryFragments)
	}
	if len(s.Treasures) != 1 || s.Treasures[0].Name != "ribbon" {
		t.Errorf("Unexpected treasures %+v", s.Treasures)
	}
}

func TestNormalize_ManeuverFlagsStartFalse(t *testing.T) {
	s := mustNormalize(t, Raw{"Power_name": []any{"A", "B"}})
	for _, m := range s.Maneuvers {
		if m.Used || m.Damaged {
			t.Errorf("Maneuver %s: expected flags false, got used=%v damaged=%v", m.Name, m.Used, m.Damaged)
		}
	}
}

func TestDecodeAttachment(t *testing.T) {
	tests := []struct {
		code any
		want Attachment
	}{
		{1, AttachmentPosition},
		{2, AttachmentMainClass},
		{3, AttachmentSubClass},
		{4, AttachmentHead},
		{5, AttachmentArm},
		{"5", AttachmentArm},
		{6, AttachmentBody},
		{7, AttachmentLeg},
		{0, AttachmentBody},
		{99, AttachmentBody},
		{nil, AttachmentBody},
		{"arm", AttachmentBody},
	}
	for _, tt := range tests {
		if got := DecodeAttachment(tt.code); got != tt.want {
			t.Errorf("DecodeAttachment(%#v) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestDecodePowerType(t *testing.T) {
	tests := []struct {
		code any
		want int
	}{
		{0, 0}, {2, 2}, {"7", 7}, {8, 0}, {-1, 0}, {nil, 0}, {"x", 0},
	}
	for _, tt := range tests {
		if got := DecodePowerType(tt.code); got != tt.want {
			t.Errorf("DecodePowerType(%#v) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestNormalize_Notes(t *testing.T) {
	s := mustNormalize(t, Raw{
		"carma_name": []any{"人形", "", " 音楽 "},
		"carma_memo": []any{"大切な人形"},
		"roice_name": []any{"オルゴール"},
		"roice_memo": []any{"まだ鳴る", "extra"},
	})
	wantMem := []NamedNote{{Name: "人形", Description: "大切な人形"}, {Name: "音楽", Description: ""}}
	if diff := cmp.Diff(wantMem, s.MemoryFragments); diff != "" {
		t.Errorf("Memory fragments mismatch (-want +got):\n%s", diff)
	}
	wantTre := []NamedNote{{Name: "オルゴール", Description: "まだ鳴る"}}
	if diff := cmp.Diff(wantTre, s.Treasures); diff != "" {
		t.Errorf("Treasures mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_FromJSON(t *testing.T) {
	payload := `{
		"pc_name": "しかばねソロリティ",
		"age": "外見年齢14歳",
		"Position_Name": "ソロリティ",
		"muscle": "1", "dexterity": "2", "sense": "0",
		"nou_alive": "1", "medama_alive": "0",
		"Skill_Henni": "1",
		"Power_name": ["のうみそ", "", "かたな"],
		"Power_cost": ["0", "", "2"],
		"Power_timing": ["オート", "", "アクション"],
		"Power_range": ["なし", "", "0"],
		"Power_hantei": ["4", "", "5"],
		"Power_shozoku": ["0", "", "1"],
		"roice_name": ["オルゴール"]
	}`
	var raw Raw
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := mustNormalize(t, raw)
	if s.Name != "しかばねソロリティ" || s.Age != "外見年齢14歳" {
		t.Errorf("Unexpected basic info %q %q", s.Name, s.Age)
	}
	if s.Profile != "ポジション: ソロリティ" {
		t.Errorf("Unexpected profile %q", s.Profile)
	}
	if s.Abilities.Dexterity != 2 {
		t.Errorf("Expected dexterity 2, got %d", s.Abilities.Dexterity)
	}
	if s.Parts[0].Damage != 0 || s.Parts[1].Damage != 1 {
		t.Errorf("Unexpected part damage %+v", s.Parts[:2])
	}
	if len(s.Maneuvers) != 2 {
		t.Fatalf("Expected 2 maneuvers, got %d", len(s.Maneuvers))
	}
	if m := s.Maneuvers[1]; m.Name != "かたな" || m.Cost != 2 || m.Attachment != AttachmentArm || m.PowerType != 1 || m.Range != "0" {
		t.Errorf("Unexpected second maneuver %+v", m)
	}
	if len(s.Treasures) != 1 {
		t.Errorf("Expected 1 treasure, got %d", len(s.Treasures))
	}
}

func TestNormalize_SheetMarshalsAllAbilityKeys(t *testing.T) {
	s := mustNormalize(t, Raw{})
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Abilities map[string]json.RawMessage `json:"abilities"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, def := range AbilityTable {
		if string(out.Abilities[def.Key]) != "0" {
			t.Errorf("Ability %s: expected 0, got %s", def.Key, out.Abilities[def.Key])
		}
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ParseError{Cause: cause})
	if !errors.Is(err, cause) {
		t.Error("Expected ParseError to unwrap to its cause")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Error("Expected errors.As to find *ParseError")
	}
	if (&ParseError{Cause: "text"}).Unwrap() != nil {
		t.Error("Expected non-error cause to unwrap to nil")
	}
}
