package setups

import "lightmotor-go/services/hal/internal/provider/boards"

// Resource names shared by the setups and the HAL.
const (
	Red      = "red"
	Yellow   = "yellow"
	Green    = "green"
	Forward  = "fwd"
	Backward = "bwd"
	MotorPWM = "pwm0"
	Timer    = "timer0"
	Status   = "status"
)

// PicoTrafficFan is the indicator + H-bridge wiring on a Raspberry Pi Pico.
// The motor pins must sit on one slice (GP16/GP17 => slice 0, A/B) so both
// directions share one period.
var PicoTrafficFan = Plan{
	Board: boards.Pico,
	Outputs: map[string]int{
		Red:      13,
		Yellow:   14,
		Green:    15,
		Forward:  16,
		Backward: 17,
	},
	// ~3.8 kHz at 125 MHz gives Top ~= 32767, a 15-bit duty range.
	PWM:    []PWMPlan{{ID: MotorPWM, Slice: 0, FreqHz: 3815}},
	Timers: []string{Timer},
	Pixels: []PixelPlan{{ID: Status, Pin: 22}},
	Diag:   &UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115200},
}
