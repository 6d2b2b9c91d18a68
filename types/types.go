// Package types holds the payloads published on the in-process bus.
package types

import "lightmotor-go/bus"

// Retained state topics.
var (
	TopicPhase     = bus.T("sequence", "phase")
	TopicIndicator = bus.T("indicator", "color")
	TopicMotor     = bus.T("motor", "drive")
)

// PhaseValue is published on every sequencer transition.
type PhaseValue struct {
	Phase string `json:"phase"` // "boot","red","yellow","green","forward","coast","backward","stopped","halted"
	Cycle int    `json:"cycle"` // 1-based motor cycle; 0 during boot
}

// IndicatorValue is the colour the sequencer last commanded.
type IndicatorValue struct {
	Color string `json:"color"` // "off","red","yellow","green"
}

// MotorValue is the drive the sequencer last commanded.
type MotorValue struct {
	Dir  string `json:"dir"` // "forward","backward","stopped"
	Duty uint16 `json:"duty"`
}
