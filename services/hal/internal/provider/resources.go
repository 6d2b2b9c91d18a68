package provider

import (
	"sync"

	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/services/hal/internal/provider/setups"
)

// Ensure the registry satisfies the contract at compile time.
var _ core.ResourceRegistry = (*Registry)(nil)

// backend creates hardware views; implemented per target (rp2040 or host).
type backend interface {
	output(n int) core.OutputPin
	pwm(p setups.PWMPlan) (core.PWM, error)
	delay(id string) core.Delay
	pixel(p setups.PixelPlan) (core.Pixel, error)
}

// Registry resolves resource names through the setup plan and enforces
// single ownership of every resource and every underlying GPIO.
type Registry struct {
	mu sync.Mutex

	plan setups.Plan
	be   backend

	owners map[core.ResourceID]string // resource -> devID
	gpio   map[int]core.ResourceID    // GPIO -> resource holding it
	pwms   map[core.ResourceID]core.PWM
}

func newRegistry(plan setups.Plan, be backend) *Registry {
	return &Registry{
		plan:   plan,
		be:     be,
		owners: make(map[core.ResourceID]string),
		gpio:   make(map[int]core.ResourceID),
		pwms:   make(map[core.ResourceID]core.PWM),
	}
}

// caller holds lock
func (r *Registry) take(devID string, id core.ResourceID) error {
	if owner, inUse := r.owners[id]; inUse && owner != "" {
		return errcode.ResourceInUse
	}
	r.owners[id] = devID
	return nil
}

// caller holds lock
func (r *Registry) takePin(id core.ResourceID, n int) error {
	if !r.plan.Board.HasPin(n) {
		return errcode.UnknownPin
	}
	if holder, inUse := r.gpio[n]; inUse && holder != id {
		return errcode.PinInUse
	}
	return nil
}

func (r *Registry) ClaimOutput(devID string, id core.ResourceID) (core.OutputPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.plan.Output(string(id))
	if !ok {
		return nil, errcode.UnknownResource
	}
	if err := r.takePin(id, n); err != nil {
		return nil, err
	}
	if err := r.take(devID, id); err != nil {
		return nil, err
	}
	r.gpio[n] = id
	return r.be.output(n), nil
}

func (r *Registry) ClaimPWM(devID string, id core.ResourceID) (core.PWM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plan.FindPWM(string(id))
	if !ok {
		return nil, errcode.UnknownResource
	}
	if p.Slice < 0 || p.Slice >= r.plan.Board.PWMSlices {
		return nil, errcode.Unsupported
	}
	if err := r.take(devID, id); err != nil {
		return nil, err
	}
	if h, ok := r.pwms[id]; ok {
		return h, nil
	}
	h, err := r.be.pwm(p)
	if err != nil {
		delete(r.owners, id)
		return nil, err
	}
	r.pwms[id] = h
	return h, nil
}

func (r *Registry) ClaimDelay(devID string, id core.ResourceID) (core.Delay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.plan.HasTimer(string(id)) {
		return nil, errcode.UnknownResource
	}
	if err := r.take(devID, id); err != nil {
		return nil, err
	}
	return r.be.delay(string(id)), nil
}

func (r *Registry) ClaimPixel(devID string, id core.ResourceID) (core.Pixel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plan.FindPixel(string(id))
	if !ok {
		return nil, errcode.UnknownResource
	}
	if err := r.takePin(id, p.Pin); err != nil {
		return nil, err
	}
	if err := r.take(devID, id); err != nil {
		return nil, err
	}
	px, err := r.be.pixel(p)
	if err != nil {
		delete(r.owners, id)
		return nil, err
	}
	r.gpio[p.Pin] = id
	return px, nil
}

// Release drops devID's claim on id. PWM peripherals are disabled on release.
func (r *Registry) Release(devID string, id core.ResourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[id]; !ok || owner != devID {
		return
	}
	if h, ok := r.pwms[id]; ok {
		_ = h.Enable(false)
	}
	for n, holder := range r.gpio {
		if holder == id {
			delete(r.gpio, n)
		}
	}
	delete(r.owners, id)
}

// topFor resolves the counter wrap value for freqHz on a clockHz counter
// with an integer prescaler, keeping Top within 16 bits.
func topFor(clockHz, freqHz uint64) uint32 {
	if freqHz == 0 || clockHz == 0 {
		return 0
	}
	ticks := clockHz / freqHz
	for ticks > 1<<16 {
		ticks /= 2
	}
	if ticks == 0 {
		return 0
	}
	return uint32(ticks - 1)
}
