// Package indicator drives a red/yellow/green signal on three owned outputs.
// At most one output is high at any time: every colour change clears all
// three before raising one.
package indicator

import (
	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
)

type Color uint8

const (
	ColorOff Color = iota
	ColorRed
	ColorYellow
	ColorGreen
	ColorInvalid // more than one output high; never produced by Light
)

func (c Color) String() string {
	switch c {
	case ColorOff:
		return "off"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	default:
		return "invalid"
	}
}

// RGB is the status-pixel rendering of c.
func (c Color) RGB() core.RGB {
	switch c {
	case ColorRed:
		return core.RGB{R: 0xff}
	case ColorYellow:
		return core.RGB{R: 0xff, G: 0xa0}
	case ColorGreen:
		return core.RGB{G: 0xff}
	default:
		return core.RGB{}
	}
}

type Light struct {
	red, yellow, green core.OutputPin
	pixel              core.Pixel // optional mirror
}

// New configures each pin as an output driven low.
func New(red, yellow, green core.OutputPin) (*Light, error) {
	if red == nil || yellow == nil || green == nil {
		return nil, errcode.InvalidParams
	}
	l := &Light{red: red, yellow: yellow, green: green}
	for _, p := range l.pins() {
		if err := p.ConfigureOutput(false); err != nil {
			return nil, errcode.Wrap(errcode.IOFault, "indicator.configure", err)
		}
	}
	return l, nil
}

// WithPixel mirrors every colour change onto p. A nil p disables mirroring.
func (l *Light) WithPixel(p core.Pixel) *Light {
	l.pixel = p
	return l
}

func (l *Light) Red() error    { return l.show(ColorRed, l.red, "indicator.red") }
func (l *Light) Yellow() error { return l.show(ColorYellow, l.yellow, "indicator.yellow") }
func (l *Light) Green() error  { return l.show(ColorGreen, l.green, "indicator.green") }

// Off drives all three outputs low. Idempotent.
func (l *Light) Off() error {
	if err := l.clear("indicator.off"); err != nil {
		return err
	}
	return l.mirror(ColorOff, "indicator.off")
}

// Color reads the outputs back.
func (l *Light) Color() Color {
	c, lit := ColorOff, 0
	if l.red.Get() {
		c, lit = ColorRed, lit+1
	}
	if l.yellow.Get() {
		c, lit = ColorYellow, lit+1
	}
	if l.green.Get() {
		c, lit = ColorGreen, lit+1
	}
	if lit > 1 {
		return ColorInvalid
	}
	return c
}

func (l *Light) pins() [3]core.OutputPin { return [3]core.OutputPin{l.red, l.yellow, l.green} }

func (l *Light) show(c Color, pin core.OutputPin, op string) error {
	if err := l.clear(op); err != nil {
		return err
	}
	if err := pin.Set(true); err != nil {
		return errcode.Wrap(errcode.IOFault, op, err)
	}
	return l.mirror(c, op)
}

// clear lowers every output, stopping at the first failed write.
func (l *Light) clear(op string) error {
	for _, p := range l.pins() {
		if err := p.Set(false); err != nil {
			return errcode.Wrap(errcode.IOFault, op, err)
		}
	}
	return nil
}

func (l *Light) mirror(c Color, op string) error {
	if l.pixel == nil {
		return nil
	}
	if err := l.pixel.SetRGB(c.RGB()); err != nil {
		return errcode.Wrap(errcode.IOFault, op, err)
	}
	return nil
}
