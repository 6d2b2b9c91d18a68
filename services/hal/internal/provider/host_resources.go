//go:build !rp2040

package provider

import (
	"sync"

	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/services/hal/internal/provider/boards"
	"lightmotor-go/services/hal/internal/provider/setups"
	"lightmotor-go/x/logx"
	"lightmotor-go/x/mathx"
	"lightmotor-go/x/timex"
)

// NewResources constructs a simulated registry for SelectedPlan.
// Delays sleep for real; diagnostics go to the console.
func NewResources() core.Resources {
	return core.Resources{
		Reg:  NewHostRegistry(SelectedPlan),
		Diag: logx.Println,
	}
}

// NewHostRegistry builds a registry over FakePin/FakePWM/FakePixel for plan.
// Claimed handles can be type-asserted to the fake types in tests.
func NewHostRegistry(plan setups.Plan) *Registry {
	return newRegistry(plan, &hostBackend{board: plan.Board, pins: make(map[int]*FakePin)})
}

type hostBackend struct {
	mu    sync.Mutex
	board boards.Board
	pins  map[int]*FakePin
}

func (h *hostBackend) output(n int) core.OutputPin {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pins[n]
	if !ok {
		p = &FakePin{number: n}
		h.pins[n] = p
	}
	return p
}

func (h *hostBackend) pwm(p setups.PWMPlan) (core.PWM, error) {
	return &FakePWM{
		id:      core.ResourceID(p.ID),
		board:   h.board,
		slice:   p.Slice,
		top:     topFor(h.board.ClockHz, p.FreqHz),
		period:  timex.PeriodFromHz(p.FreqHz),
		bound:   [2]int{-1, -1},
		enabled: true, // Configure leaves the slice running
	}, nil
}

func (h *hostBackend) delay(string) core.Delay { return timex.Sleeper{} }

func (h *hostBackend) pixel(p setups.PixelPlan) (core.Pixel, error) {
	return &FakePixel{pin: p.Pin}, nil
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements core.OutputPin for host-side tests and simulation.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	modeOut bool
	writes  int

	// Fail, when set, is returned by every Set call.
	Fail error
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modeOut = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	if !p.modeOut {
		return errcode.NotConfigured
	}
	p.level = level
	p.writes++
	return nil
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// IsOutput reports whether ConfigureOutput has been called.
func (p *FakePin) IsOutput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modeOut
}

// Writes counts successful Set calls.
func (p *FakePin) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// ----------------------------- PWM (host) ------------------------------------

// FakePWM models one RP2040-style slice: two channels, one period, and a
// compare value per channel clamped to Top by the "hardware". Like the
// rp2040 backend it loads compare 0 on both channels when disabled and
// restores the commanded duty on enable.
type FakePWM struct {
	mu      sync.Mutex
	id      core.ResourceID
	board   boards.Board
	slice   int
	top     uint32
	period  uint64
	bound   [2]int    // GPIO per channel, -1 => unbound
	duty    [2]uint32 // commanded
	compare [2]uint32 // loaded in hardware
	enabled bool

	// Fail, when set, is returned by SetDuty and Enable.
	Fail error
}

func (p *FakePWM) ID() core.ResourceID { return p.id }
func (p *FakePWM) Top() uint32         { return p.top }
func (p *FakePWM) Period() uint64      { return p.period }

func (p *FakePWM) Bind(pin core.OutputPin) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := pin.Number()
	slice, ch := p.board.PWMSliceOf(n)
	if slice != p.slice {
		return 0, errcode.Unsupported
	}
	if p.bound[ch] >= 0 && p.bound[ch] != n {
		return 0, errcode.ResourceInUse
	}
	p.bound[ch] = n
	return ch, nil
}

func (p *FakePWM) SetDuty(ch uint8, duty uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch > core.ChannelB {
		return errcode.InvalidParams
	}
	if p.bound[ch] < 0 {
		return errcode.NotConfigured
	}
	if p.Fail != nil {
		return p.Fail
	}
	p.duty[ch] = mathx.Min(duty, p.top)
	if p.enabled {
		p.compare[ch] = p.duty[ch]
	}
	return nil
}

func (p *FakePWM) Duty(ch uint8) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch > core.ChannelB {
		return 0
	}
	return p.duty[ch]
}

func (p *FakePWM) Enable(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	if on {
		p.compare = p.duty
	} else {
		p.compare = [2]uint32{}
	}
	p.enabled = on
	return nil
}

func (p *FakePWM) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Output is the compare value loaded in hardware for ch, i.e. the duty the
// pin actually drives.
func (p *FakePWM) Output(ch uint8) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch > core.ChannelB {
		return 0
	}
	return p.compare[ch]
}

// ----------------------------- Pixel (host) ----------------------------------

type FakePixel struct {
	mu   sync.Mutex
	pin  int
	last core.RGB
	Fail error
}

func (p *FakePixel) SetRGB(c core.RGB) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.last = c
	return nil
}

func (p *FakePixel) Last() core.RGB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
