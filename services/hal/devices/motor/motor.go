// Package motor drives a two-direction DC motor through an H-bridge whose two
// inputs sit on the A/B channels of one PWM peripheral.
package motor

import (
	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/x/logx"
	"lightmotor-go/x/mathx"
)

type Dir uint8

const (
	DirStopped Dir = iota
	DirForward
	DirBackward
)

func (d Dir) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	default:
		return "stopped"
	}
}

// Drive is a read-back of the motor's output.
type Drive struct {
	Dir     Dir
	Duty    uint32 // active channel duty; 0 when stopped
	Enabled bool
}

type Motor struct {
	pwm      core.PWM
	fwd, bwd uint8 // channels
	top      uint32
	dir      Dir
}

// New configures both pins as low outputs, routes them to the forward and
// backward channels of pwm, leaves the peripheral disabled and reports the
// resolved duty range on log.
func New(forward, backward core.OutputPin, pwm core.PWM, log *logx.Logger) (*Motor, error) {
	if forward == nil || backward == nil || pwm == nil {
		return nil, errcode.InvalidParams
	}
	for _, p := range [2]core.OutputPin{forward, backward} {
		if err := p.ConfigureOutput(false); err != nil {
			return nil, errcode.Wrap(errcode.IOFault, "motor.configure", err)
		}
	}
	fwd, err := pwm.Bind(forward)
	if err != nil {
		return nil, errcode.Wrap(errcode.IOFault, "motor.bind_forward", err)
	}
	bwd, err := pwm.Bind(backward)
	if err != nil {
		return nil, errcode.Wrap(errcode.IOFault, "motor.bind_backward", err)
	}
	if fwd == bwd {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "motor.bind", Msg: "forward and backward share a channel"}
	}

	m := &Motor{pwm: pwm, fwd: fwd, bwd: bwd, top: pwm.Top()}
	for _, ch := range [2]uint8{fwd, bwd} {
		if err := pwm.SetDuty(ch, 0); err != nil {
			return nil, errcode.Wrap(errcode.IOFault, "motor.init", err)
		}
	}

	// Start definitively stopped; the first drive call enables.
	if err := pwm.Enable(false); err != nil {
		return nil, errcode.Wrap(errcode.IOFault, "motor.init", err)
	}

	log.Print("pwm", logx.Uint("max_duty", uint64(m.top)))
	log.Print("pwm", logx.Uint("period_ns", pwm.Period()))
	return m, nil
}

func (m *Motor) MaxDuty() uint32 { return m.top }
func (m *Motor) Period() uint64  { return m.pwm.Period() }

// Forward zeroes the backward channel, then drives forward at speed counts.
// speed above MaxDuty is clamped to MaxDuty.
func (m *Motor) Forward(speed uint16) error {
	return m.drive(DirForward, m.fwd, m.bwd, speed, "motor.forward")
}

// Backward is the mirror of Forward.
func (m *Motor) Backward(speed uint16) error {
	return m.drive(DirBackward, m.bwd, m.fwd, speed, "motor.backward")
}

// Stop disables the peripheral; neither channel drives while disabled.
func (m *Motor) Stop() error {
	if err := m.pwm.Enable(false); err != nil {
		return errcode.Wrap(errcode.IOFault, "motor.stop", err)
	}
	m.dir = DirStopped
	return nil
}

func (m *Motor) State() Drive {
	d := Drive{Dir: m.dir, Enabled: m.pwm.Enabled()}
	switch m.dir {
	case DirForward:
		d.Duty = m.pwm.Duty(m.fwd)
	case DirBackward:
		d.Duty = m.pwm.Duty(m.bwd)
	}
	if !d.Enabled {
		d.Dir, d.Duty = DirStopped, 0
	}
	return d
}

// drive zeroes off before raising on, and enables last, so both channels
// are never nonzero together on a running peripheral.
func (m *Motor) drive(dir Dir, on, off uint8, speed uint16, op string) error {
	duty := mathx.Clamp(uint32(speed), 0, m.top)
	if err := m.pwm.SetDuty(off, 0); err != nil {
		return errcode.Wrap(errcode.IOFault, op, err)
	}
	if err := m.pwm.SetDuty(on, duty); err != nil {
		return errcode.Wrap(errcode.IOFault, op, err)
	}
	if !m.pwm.Enabled() {
		if err := m.pwm.Enable(true); err != nil {
			return errcode.Wrap(errcode.IOFault, op, err)
		}
	}
	m.dir = dir
	return nil
}
