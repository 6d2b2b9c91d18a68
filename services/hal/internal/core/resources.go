package core

import "lightmotor-go/x/logx"

// ResourceID names a board resource in the setup's lookup table,
// e.g. "red", "fwd", "pwm0", "timer0".
type ResourceID string

// ---- GPIO ----

// OutputPin is an exclusively owned push-pull digital output.
type OutputPin interface {
	Number() int
	ConfigureOutput(initial bool) error
	Set(level bool) error
	Get() bool
}

// ---- PWM ----

// Channel indices within one PWM peripheral.
const (
	ChannelA uint8 = 0
	ChannelB uint8 = 1
)

// PWM is one peripheral whose channels share a single period.
// Duty values are absolute counts in [0..Top()].
type PWM interface {
	ID() ResourceID
	// Bind routes an output pin to this peripheral and returns its channel.
	Bind(pin OutputPin) (uint8, error)
	Top() uint32
	Period() uint64 // nanoseconds
	SetDuty(ch uint8, duty uint32) error
	Duty(ch uint8) uint32
	// Enable(false) drives both channels low, then stops the counter.
	// Duty keeps reporting the commanded values; Enable(true) reloads them.
	Enable(on bool) error
	Enabled() bool
}

// ---- Timing ----

// Delay blocks the caller for ms milliseconds on a hardware timer.
type Delay interface {
	DelayMs(ms uint32)
}

// ---- Status pixel ----

type RGB struct{ R, G, B uint8 }

// Pixel is a single addressable RGB LED.
type Pixel interface {
	SetRGB(c RGB) error
}

// ---- Registry ----

// ResourceRegistry hands out board resources by name. Each resource has at
// most one owner; a GPIO reachable under two names is still one pin.
type ResourceRegistry interface {
	ClaimOutput(devID string, id ResourceID) (OutputPin, error)
	ClaimPWM(devID string, id ResourceID) (PWM, error)
	ClaimDelay(devID string, id ResourceID) (Delay, error)
	ClaimPixel(devID string, id ResourceID) (Pixel, error)
	Release(devID string, id ResourceID)
}

// Resources is what a platform provider hands to the HAL at boot.
type Resources struct {
	Reg  ResourceRegistry
	Diag logx.Sink // diagnostic line sink; never nil
}
