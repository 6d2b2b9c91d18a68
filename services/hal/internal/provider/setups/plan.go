package setups

import "lightmotor-go/services/hal/internal/provider/boards"

// Plan specifies wiring and operating parameters chosen by a setup.
// Providers consume this plan to resolve resources by name.
type Plan struct {
	Board boards.Board

	// Outputs maps a resource name to a GPIO number.
	Outputs map[string]int

	PWM    []PWMPlan
	Timers []string
	Pixels []PixelPlan
	Diag   *UARTPlan // nil => console only
}

type PWMPlan struct {
	ID     string // e.g. "pwm0"
	Slice  int    // controller index
	FreqHz uint64 // shared by both channels
}

type PixelPlan struct {
	ID  string
	Pin int // WS2812 data line
}

type UARTPlan struct {
	ID   string // "uart0" or "uart1"
	TX   int
	RX   int
	Baud uint32
}

// Output resolves a named output to its GPIO.
func (p Plan) Output(name string) (int, bool) {
	n, ok := p.Outputs[name]
	return n, ok
}

func (p Plan) FindPWM(id string) (PWMPlan, bool) {
	for _, w := range p.PWM {
		if w.ID == id {
			return w, true
		}
	}
	return PWMPlan{}, false
}

func (p Plan) FindPixel(id string) (PixelPlan, bool) {
	for _, px := range p.Pixels {
		if px.ID == id {
			return px, true
		}
	}
	return PixelPlan{}, false
}

func (p Plan) HasTimer(id string) bool {
	for _, t := range p.Timers {
		if t == id {
			return true
		}
	}
	return false
}
