// Package sequence runs the boot indication, the motor cycle and the final
// halt as an explicit state machine over an indicator, a motor and a delay.
package sequence

import (
	"context"

	"lightmotor-go/bus"
	"lightmotor-go/errcode"
	"lightmotor-go/types"
)

// Indicator is the subset of indicator.Light the sequence drives.
type Indicator interface {
	Red() error
	Yellow() error
	Green() error
	Off() error
}

// Motor is the subset of motor.Motor the sequence drives.
type Motor interface {
	Forward(speed uint16) error
	Backward(speed uint16) error
	Stop() error
}

// Delay blocks the caller for ms milliseconds.
type Delay interface {
	DelayMs(ms uint32)
}

// Program holds the fixed timings and duty of the sequence.
type Program struct {
	BootHoldMs  uint32 // red and yellow hold
	DriveHoldMs uint32 // forward, coast and backward hold
	Duty        uint16 // absolute duty count for both directions
	Cycles      int    // motor cycles before halting; 0 => never halt
	IdleMs      uint32 // single delay inside the halt loop
}

// Default cycles the motor once and then halts on red.
var Default = Program{
	BootHoldMs:  2000,
	DriveHoldMs: 5000,
	Duty:        800,
	Cycles:      1,
	IdleMs:      500_000,
}

type Phase uint8

const (
	PhaseBoot Phase = iota
	PhaseRed
	PhaseYellow
	PhaseGreen
	PhaseForward
	PhaseCoast
	PhaseBackward
	PhaseStopped
	PhaseHalted
)

var phaseNames = [...]string{"boot", "red", "yellow", "green", "forward", "coast", "backward", "stopped", "halted"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// step is one state: an action followed by a hold.
type step struct {
	phase  Phase
	act    func() error
	holdMs uint32
	light  string // commanded colour, "" => unchanged
	dir    string // commanded drive, "" => unchanged
	duty   uint16
}

type Sequencer struct {
	light Indicator
	motor Motor
	delay Delay
	prog  Program
	conn  *bus.Connection

	phase Phase
	cycle int
}

type Option func(*Sequencer)

func WithProgram(p Program) Option     { return func(s *Sequencer) { s.prog = p } }
func WithBus(c *bus.Connection) Option { return func(s *Sequencer) { s.conn = c } }

func New(light Indicator, motor Motor, delay Delay, opts ...Option) *Sequencer {
	s := &Sequencer{light: light, motor: motor, delay: delay, prog: Default}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sequencer) Phase() Phase { return s.phase }
func (s *Sequencer) Cycle() int   { return s.cycle }

// Run boots, runs Program.Cycles motor cycles and halts with the indicator
// red, idling in IdleMs delays until ctx is cancelled. It returns the first
// hardware error, tagged with the phase it occurred in, or ctx.Err().
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.run(s.bootSteps()); err != nil {
		return err
	}
	for s.prog.Cycles == 0 || s.cycle < s.prog.Cycles {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cycle++
		if err := s.run(s.cycleSteps()); err != nil {
			return err
		}
	}
	return s.halt(ctx)
}

func (s *Sequencer) bootSteps() []step {
	p := s.prog
	return []step{
		{phase: PhaseBoot, act: s.light.Off, light: "off"},
		{phase: PhaseRed, act: s.light.Red, holdMs: p.BootHoldMs, light: "red"},
		{phase: PhaseYellow, act: s.light.Yellow, holdMs: p.BootHoldMs, light: "yellow"},
		{phase: PhaseGreen, act: s.light.Green, light: "green"},
	}
}

func (s *Sequencer) cycleSteps() []step {
	p := s.prog
	return []step{
		{phase: PhaseForward, act: func() error { return s.motor.Forward(p.Duty) }, holdMs: p.DriveHoldMs, dir: "forward", duty: p.Duty},
		{phase: PhaseCoast, act: s.motor.Stop, holdMs: p.DriveHoldMs, dir: "stopped"},
		{phase: PhaseBackward, act: func() error { return s.motor.Backward(p.Duty) }, holdMs: p.DriveHoldMs, dir: "backward", duty: p.Duty},
		{phase: PhaseStopped, act: s.motor.Stop, dir: "stopped"},
	}
}

func (s *Sequencer) run(steps []step) error {
	for _, st := range steps {
		s.phase = st.phase
		if err := st.act(); err != nil {
			return errcode.Wrap(errcode.IOFault, "sequence."+st.phase.String(), err)
		}
		s.publish(st)
		if st.holdMs > 0 {
			s.delay.DelayMs(st.holdMs)
		}
	}
	return nil
}

func (s *Sequencer) halt(ctx context.Context) error {
	if err := s.run([]step{{phase: PhaseHalted, act: s.light.Red, light: "red"}}); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.delay.DelayMs(s.prog.IdleMs)
	}
}

func (s *Sequencer) publish(st step) {
	if s.conn == nil {
		return
	}
	if st.light != "" {
		s.conn.Publish(s.conn.NewMessage(types.TopicIndicator, types.IndicatorValue{Color: st.light}, true))
	}
	if st.dir != "" {
		s.conn.Publish(s.conn.NewMessage(types.TopicMotor, types.MotorValue{Dir: st.dir, Duty: st.duty}, true))
	}
	s.conn.Publish(s.conn.NewMessage(types.TopicPhase, types.PhaseValue{Phase: st.phase.String(), Cycle: s.cycle}, true))
}
