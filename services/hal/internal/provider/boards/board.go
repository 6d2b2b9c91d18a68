package boards

// Board describes what the PCB/SoC can do (GPIO range, PWM slices).
// It must not include wiring choices (pins) or operating parameters (frequencies).
type Board struct {
	Name             string
	GPIOMin, GPIOMax int
	PWMSlices        int

	// ClockHz drives the PWM counter; used to resolve Top for a period.
	ClockHz uint64
}

// Pico is the Raspberry Pi Pico (RP2040): GP0..GP28, eight PWM slices.
var Pico = Board{
	Name:      "pico",
	GPIOMin:   0,
	GPIOMax:   28,
	PWMSlices: 8,
	ClockHz:   125_000_000,
}

// HasPin reports whether n is a usable GPIO on this board.
func (b Board) HasPin(n int) bool { return n >= b.GPIOMin && n <= b.GPIOMax }

// PWMSliceOf returns the RP2040-style slice and channel for a GPIO:
// slice = (n/2) mod 8, channel A for even pins and B for odd pins.
func (b Board) PWMSliceOf(n int) (slice int, ch uint8) {
	if b.PWMSlices <= 0 {
		return -1, 0
	}
	return (n >> 1) % b.PWMSlices, uint8(n & 1)
}
