//go:build rp2040

package provider

import (
	"image/color"
	"machine"
	"sync"

	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/services/hal/internal/provider/setups"
	"lightmotor-go/x/logx"
	"lightmotor-go/x/mathx"
	"lightmotor-go/x/timex"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"
)

// NewResources constructs the registry from the selected plan and, when the
// plan names a diagnostic UART, tees diagnostics to it as well as the console.
func NewResources() core.Resources {
	diag := logx.Println
	if u := SelectedPlan.Diag; u != nil {
		if s, err := newUARTSink(*u); err != nil {
			println("[provider] diag uart unavailable:", err.Error())
		} else {
			diag = logx.Tee(logx.Println, s)
		}
	}
	return core.Resources{
		Reg:  newRegistry(SelectedPlan, rp2Backend{}),
		Diag: diag,
	}
}

type rp2Backend struct{}

func (rp2Backend) output(n int) core.OutputPin { return &rp2GPIO{p: machine.Pin(n), n: n} }

func (rp2Backend) delay(string) core.Delay { return timex.Sleeper{} }

func (rp2Backend) pwm(p setups.PWMPlan) (core.PWM, error) {
	ctrl := pwmGroupBySlice(uint8(p.Slice))
	period := timex.PeriodFromHz(p.FreqHz)
	if err := ctrl.Configure(machine.PWMConfig{Period: period}); err != nil {
		return nil, errcode.Wrap(errcode.IOFault, "pwm.configure", err)
	}
	return &rp2PWM{
		id:      core.ResourceID(p.ID),
		slice:   uint8(p.Slice),
		ctrl:    ctrl,
		top:     ctrl.Top(),
		period:  period,
		bound:   [2]int{-1, -1},
		enabled: true, // Configure leaves the slice running
	}, nil
}

func (rp2Backend) pixel(p setups.PixelPlan) (core.Pixel, error) {
	pin := machine.Pin(p.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &rp2Pixel{dev: ws2812.New(pin)}, nil
}

// -----------------------------------------------------------------------------
// GPIO handle
// -----------------------------------------------------------------------------

type rp2GPIO struct {
	p machine.Pin
	n int
}

func (r *rp2GPIO) Number() int { return r.n }

func (r *rp2GPIO) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

// Set cannot fail on RP2040 SIO; the error is part of the contract for
// backends that can.
func (r *rp2GPIO) Set(b bool) error {
	r.p.Set(b)
	return nil
}

func (r *rp2GPIO) Get() bool { return r.p.Get() }

// -----------------------------------------------------------------------------
// PWM internals (RP2040)
// -----------------------------------------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// rp2PWM is one slice with both channels. Commanded compare values are
// mirrored locally so Duty() reads back what was written. A halted slice
// holds its outputs at whatever level the counter stopped on, so while
// disabled the hardware compares are held at 0 and the mirror is loaded
// again on enable.
type rp2PWM struct {
	mu sync.Mutex

	id     core.ResourceID
	slice  uint8
	ctrl   pwmCtrl
	top    uint32
	period uint64

	bound   [2]int
	duty    [2]uint32
	enabled bool
}

func (p *rp2PWM) ID() core.ResourceID { return p.id }
func (p *rp2PWM) Top() uint32         { return p.top }
func (p *rp2PWM) Period() uint64      { return p.period }

func (p *rp2PWM) Bind(pin core.OutputPin) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := pin.Number()
	slice, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil || slice != p.slice {
		return 0, errcode.Unsupported
	}
	ch, err := p.ctrl.Channel(machine.Pin(n))
	if err != nil {
		return 0, errcode.Wrap(errcode.IOFault, "pwm.bind", err)
	}
	if p.bound[ch] >= 0 && p.bound[ch] != n {
		return 0, errcode.ResourceInUse
	}
	p.bound[ch] = n
	return ch, nil
}

func (p *rp2PWM) SetDuty(ch uint8, duty uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch > core.ChannelB {
		return errcode.InvalidParams
	}
	if p.bound[ch] < 0 {
		return errcode.NotConfigured
	}
	duty = mathx.Min(duty, p.top)
	p.duty[ch] = duty
	if p.enabled {
		p.ctrl.Set(ch, duty)
	}
	return nil
}

func (p *rp2PWM) Duty(ch uint8) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch > core.ChannelB {
		return 0
	}
	return p.duty[ch]
}

func (p *rp2PWM) Enable(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !on {
		// Force both outputs low before the counter halts.
		p.ctrl.Set(core.ChannelA, 0)
		p.ctrl.Set(core.ChannelB, 0)
		p.ctrl.Enable(false)
		p.enabled = false
		return nil
	}
	p.ctrl.Set(core.ChannelA, p.duty[core.ChannelA])
	p.ctrl.Set(core.ChannelB, p.duty[core.ChannelB])
	p.ctrl.Enable(true)
	p.enabled = true
	return nil
}

func (p *rp2PWM) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// -----------------------------------------------------------------------------
// Status pixel (WS2812)
// -----------------------------------------------------------------------------

type rp2Pixel struct {
	dev ws2812.Device
	buf [1]color.RGBA
}

func (p *rp2Pixel) SetRGB(c core.RGB) error {
	p.buf[0] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	if err := p.dev.WriteColors(p.buf[:]); err != nil {
		return errcode.Wrap(errcode.IOFault, "pixel.write", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Diagnostic UART
// -----------------------------------------------------------------------------

var crlf = []byte("\r\n")

type uartSink struct{ u *uartx.UART }

func newUARTSink(p setups.UARTPlan) (logx.Sink, error) {
	var hw *uartx.UART
	switch p.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errcode.UnknownResource
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: p.Baud,
		TX:       machine.Pin(p.TX),
		RX:       machine.Pin(p.RX),
	}); err != nil {
		return nil, err
	}
	return uartSink{u: hw}, nil
}

// WriteLine is best-effort; a full UART must not stall the control sequence.
func (s uartSink) WriteLine(line string) {
	_, _ = s.u.Write([]byte(line))
	_, _ = s.u.Write(crlf)
}
