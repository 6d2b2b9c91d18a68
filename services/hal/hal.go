// Package hal claims the board resources named by the selected setup and
// builds the indicator light and the directional motor on top of them.
package hal

import (
	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/devices/indicator"
	"lightmotor-go/services/hal/devices/motor"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/services/hal/internal/provider"
	"lightmotor-go/services/hal/internal/provider/setups"
	"lightmotor-go/x/logx"
)

// Owner IDs recorded against claimed resources.
const (
	ownerIndicator = "indicator"
	ownerMotor     = "motor"
	ownerTimer     = "sequence"
)

// Devices is everything the firmware drives. It lives for the program
// lifetime; Close exists for tests and bring-up tools.
type Devices struct {
	Light *indicator.Light
	Motor *motor.Motor
	Delay core.Delay
	Diag  logx.Sink

	reg     core.ResourceRegistry
	claimed []claim
}

type claim struct {
	owner string
	id    core.ResourceID
}

// Open acquires every resource from the platform provider.
func Open() (*Devices, error) {
	return open(provider.NewResources())
}

func open(res core.Resources) (*Devices, error) {
	d := &Devices{Diag: res.Diag, reg: res.Reg}
	if d.Diag == nil {
		d.Diag = logx.Discard
	}
	if err := d.build(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Devices) build() error {
	log := logx.New("hal", d.Diag)

	var pins [5]core.OutputPin
	names := [5]string{setups.Red, setups.Yellow, setups.Green, setups.Forward, setups.Backward}
	for i, name := range names {
		owner := ownerIndicator
		if i >= 3 {
			owner = ownerMotor
		}
		p, err := d.reg.ClaimOutput(owner, core.ResourceID(name))
		if err != nil {
			return claimErr(name, err)
		}
		d.track(owner, name)
		pins[i] = p
	}

	pwm, err := d.reg.ClaimPWM(ownerMotor, setups.MotorPWM)
	if err != nil {
		return claimErr(setups.MotorPWM, err)
	}
	d.track(ownerMotor, setups.MotorPWM)

	if d.Delay, err = d.reg.ClaimDelay(ownerTimer, setups.Timer); err != nil {
		return claimErr(setups.Timer, err)
	}
	d.track(ownerTimer, setups.Timer)

	if d.Light, err = indicator.New(pins[0], pins[1], pins[2]); err != nil {
		return err
	}
	// The status pixel is optional; boards without one still run.
	if px, err := d.reg.ClaimPixel(ownerIndicator, setups.Status); err == nil {
		d.track(ownerIndicator, setups.Status)
		d.Light.WithPixel(px)
	} else {
		log.Print("no status pixel", logx.Err(err))
	}

	d.Motor, err = motor.New(pins[3], pins[4], pwm, log.With("motor"))
	return err
}

func (d *Devices) track(owner, name string) {
	d.claimed = append(d.claimed, claim{owner, core.ResourceID(name)})
}

// Close releases every claimed resource in reverse order. PWM output stops.
func (d *Devices) Close() {
	for i := len(d.claimed) - 1; i >= 0; i-- {
		c := d.claimed[i]
		d.reg.Release(c.owner, c.id)
	}
	d.claimed = nil
}

func claimErr(name string, err error) error {
	return &errcode.E{C: errcode.Of(err), Op: "hal.claim", Msg: name, Err: err}
}
