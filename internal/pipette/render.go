package pipette

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vk/emucompose/internal/settings"
)

type smoothiePipette struct {
	Model string `json:"model"`
	ID    string `json:"id"`
}

type smoothieSettings struct {
	Port  int             `json:"port"`
	Left  smoothiePipette `json:"left"`
	Right smoothiePipette `json:"right"`
}

// SmoothieEnv renders the OT_EMULATOR_smoothie value for an OT-2. Empty
// mounts report the default pipette.
func SmoothieEnv(left, right *Selection) (string, error) {
	payload := smoothieSettings{
		Port:  settings.SmoothiePort,
		Left:  smoothieEntry(left),
		Right: smoothieEntry(right),
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode smoothie settings: %w", err)
	}
	return string(buf), nil
}

func smoothieEntry(sel *Selection) smoothiePipette {
	p := settings.DefaultOT2Pipette
	if sel != nil {
		p = sel.Pipette
	}
	return smoothiePipette{Model: p.SmoothieModel, ID: p.SmoothieID}
}

type definition struct {
	Name       string `json:"pipette_name"`
	Model      string `json:"pipette_model"`
	SerialCode string `json:"pipette_serial_code"`
}

// Definition renders the OT3_PIPETTE_DEFINITION value. A selection without a
// serial code gets today's date as MMDDYYYY.
func Definition(sel *Selection, now time.Time) (string, error) {
	code := sel.SerialCode
	if code == "" {
		code = now.Format(serialDateFmt)
	}
	buf, err := json.Marshal(definition{
		Name:       sel.Pipette.Name,
		Model:      fmt.Sprintf("%02d", sel.ModelNumber()),
		SerialCode: code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode pipette definition: %w", err)
	}
	return string(buf), nil
}

// DefinitionEnv returns the env var name for a mount's definition.
func DefinitionEnv(m Mount) string {
	if m == Right {
		return settings.EnvRightPipetteDefinition
	}
	return settings.EnvPipetteDefinition
}
