package charasheet

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"dollsheet/internal/nechronica"
)

// DemoSheetID is the id reported for the built-in sheet.
const DemoSheetID = "demo"

// SampleSheetID is a public sheet offered as a one-click example.
const SampleSheetID = "5132265"

//go:embed demo.yaml
var demoYAML []byte

// Demo returns a fresh copy of the built-in raw payload.
func Demo() (Result, error) {
	var raw nechronica.Raw
	if err := yaml.Unmarshal(demoYAML, &raw); err != nil {
		return Result{}, fmt.Errorf("decode demo sheet: %w", err)
	}
	return Result{SheetID: DemoSheetID, Raw: raw}, nil
}
