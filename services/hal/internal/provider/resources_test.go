//go:build !rp2040

package provider

import (
	"testing"

	"lightmotor-go/errcode"
	"lightmotor-go/services/hal/internal/core"
	"lightmotor-go/services/hal/internal/provider/boards"
	"lightmotor-go/services/hal/internal/provider/setups"
)

func testPlan() setups.Plan {
	return setups.Plan{
		Board: boards.Pico,
		Outputs: map[string]int{
			"red":   13,
			"alias": 13,
			"fwd":   16,
			"bwd":   17,
			"far":   40,
			"stray": 2,
		},
		PWM:    []setups.PWMPlan{{ID: "pwm0", Slice: 0, FreqHz: 3815}, {ID: "pwm9", Slice: 9, FreqHz: 1000}},
		Timers: []string{"timer0"},
		Pixels: []setups.PixelPlan{{ID: "status", Pin: 22}},
	}
}

func TestClaimOutputByName(t *testing.T) {
	r := NewHostRegistry(testPlan())

	pin, err := r.ClaimOutput("light", "red")
	if err != nil {
		t.Fatalf("claim red: %v", err)
	}
	if pin.Number() != 13 {
		t.Fatalf("red resolved to GPIO %d, want 13", pin.Number())
	}
	if _, ok := pin.(*FakePin); !ok {
		t.Fatalf("unexpected handle type %T", pin)
	}

	for name, c := range map[string]struct {
		id   core.ResourceID
		want errcode.Code
	}{
		"second owner":   {"red", errcode.ResourceInUse},
		"same gpio":      {"alias", errcode.PinInUse},
		"not in plan":    {"blue", errcode.UnknownResource},
		"off the header": {"far", errcode.UnknownPin},
	} {
		_, err := r.ClaimOutput("other", c.id)
		if errcode.Of(err) != c.want {
			t.Fatalf("%s: got %v, want %s", name, err, c.want)
		}
	}

	r.Release("light", "red")
	if _, err := r.ClaimOutput("other", "alias"); err != nil {
		t.Fatalf("alias after release: %v", err)
	}
}

func TestReleaseIgnoresNonOwner(t *testing.T) {
	r := NewHostRegistry(testPlan())
	if _, err := r.ClaimOutput("light", "red"); err != nil {
		t.Fatal(err)
	}
	r.Release("intruder", "red")
	if _, err := r.ClaimOutput("other", "red"); errcode.Of(err) != errcode.ResourceInUse {
		t.Fatalf("non-owner release freed the pin: %v", err)
	}
}

func TestClaimPWMAndBind(t *testing.T) {
	r := NewHostRegistry(testPlan())

	pwm, err := r.ClaimPWM("motor", "pwm0")
	if err != nil {
		t.Fatalf("claim pwm0: %v", err)
	}
	if pwm.Top() != topFor(boards.Pico.ClockHz, 3815) || pwm.Top() == 0 {
		t.Fatalf("unexpected top %d", pwm.Top())
	}
	if pwm.Period() != 1_000_000_000/3815 {
		t.Fatalf("unexpected period %d", pwm.Period())
	}
	if _, err := r.ClaimPWM("other", "pwm0"); errcode.Of(err) != errcode.ResourceInUse {
		t.Fatalf("second claim: %v", err)
	}
	if _, err := r.ClaimPWM("motor", "pwm9"); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("slice out of range: %v", err)
	}

	fwd, _ := r.ClaimOutput("motor", "fwd")
	bwd, _ := r.ClaimOutput("motor", "bwd")
	stray, _ := r.ClaimOutput("motor", "stray")

	chA, err := pwm.Bind(fwd)
	if err != nil || chA != core.ChannelA {
		t.Fatalf("bind fwd: ch=%d err=%v", chA, err)
	}
	chB, err := pwm.Bind(bwd)
	if err != nil || chB != core.ChannelB {
		t.Fatalf("bind bwd: ch=%d err=%v", chB, err)
	}
	if _, err := pwm.Bind(stray); errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("GP2 is on slice 1, bind should fail: %v", err)
	}

	fake := pwm.(*FakePWM)
	if err := pwm.Enable(true); err != nil {
		t.Fatal(err)
	}
	_ = pwm.SetDuty(chA, 1<<20)
	if pwm.Duty(chA) != pwm.Top() {
		t.Fatalf("duty not clamped to top: %d", pwm.Duty(chA))
	}
	r.Release("motor", "pwm0")
	if fake.Enabled() || fake.Output(chA) != 0 {
		t.Fatal("release should disable the peripheral")
	}
}

func TestPWMDisableDrivesChannelsLow(t *testing.T) {
	r := NewHostRegistry(testPlan())
	fwd, _ := r.ClaimOutput("motor", "fwd")
	bwd, _ := r.ClaimOutput("motor", "bwd")
	pwm, err := r.ClaimPWM("motor", "pwm0")
	if err != nil {
		t.Fatal(err)
	}
	fake := pwm.(*FakePWM)
	if !pwm.Enabled() {
		t.Fatal("a configured slice starts running")
	}
	chA, _ := pwm.Bind(fwd)
	chB, _ := pwm.Bind(bwd)

	_ = pwm.SetDuty(chA, 800)
	if fake.Output(chA) != 800 {
		t.Fatalf("enabled output = %d, want 800", fake.Output(chA))
	}

	if err := pwm.Enable(false); err != nil {
		t.Fatal(err)
	}
	if fake.Output(chA) != 0 || fake.Output(chB) != 0 {
		t.Fatalf("disabled outputs = %d/%d, want 0/0", fake.Output(chA), fake.Output(chB))
	}
	if pwm.Duty(chA) != 800 {
		t.Fatalf("commanded duty = %d, want 800 kept", pwm.Duty(chA))
	}

	// Writes while disabled are held back until enable.
	_ = pwm.SetDuty(chA, 0)
	_ = pwm.SetDuty(chB, 500)
	if fake.Output(chB) != 0 {
		t.Fatal("duty reached hardware while disabled")
	}
	if err := pwm.Enable(true); err != nil {
		t.Fatal(err)
	}
	if fake.Output(chA) != 0 || fake.Output(chB) != 500 {
		t.Fatalf("re-enabled outputs = %d/%d, want 0/500", fake.Output(chA), fake.Output(chB))
	}
}

func TestClaimDelayAndPixel(t *testing.T) {
	r := NewHostRegistry(testPlan())

	if _, err := r.ClaimDelay("seq", "timer0"); err != nil {
		t.Fatalf("claim timer0: %v", err)
	}
	if _, err := r.ClaimDelay("other", "timer0"); errcode.Of(err) != errcode.ResourceInUse {
		t.Fatalf("timer shared: %v", err)
	}
	if _, err := r.ClaimDelay("seq", "timer1"); errcode.Of(err) != errcode.UnknownResource {
		t.Fatalf("unknown timer: %v", err)
	}

	px, err := r.ClaimPixel("light", "status")
	if err != nil {
		t.Fatalf("claim pixel: %v", err)
	}
	if err := px.SetRGB(core.RGB{G: 0xff}); err != nil {
		t.Fatal(err)
	}
	if px.(*FakePixel).Last() != (core.RGB{G: 0xff}) {
		t.Fatal("pixel did not latch colour")
	}
}

func TestFakePinRequiresOutputMode(t *testing.T) {
	p := &FakePin{number: 3}
	if err := p.Set(true); errcode.Of(err) != errcode.NotConfigured {
		t.Fatalf("unconfigured set: %v", err)
	}
	if err := p.ConfigureOutput(false); err != nil {
		t.Fatal(err)
	}
	if err := p.Set(true); err != nil || !p.Get() || p.Writes() != 1 {
		t.Fatalf("set after configure: err=%v level=%v writes=%d", err, p.Get(), p.Writes())
	}
}

func TestSelectedPlanResolves(t *testing.T) {
	r := NewHostRegistry(SelectedPlan)
	for _, id := range []core.ResourceID{setups.Red, setups.Yellow, setups.Green, setups.Forward, setups.Backward} {
		if _, err := r.ClaimOutput("check", id); err != nil {
			t.Fatalf("%s: %v", id, err)
		}
	}
	pwm, err := r.ClaimPWM("check", setups.MotorPWM)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{setups.Forward, setups.Backward} {
		n, _ := SelectedPlan.Output(id)
		if s, _ := SelectedPlan.Board.PWMSliceOf(n); s != 0 {
			t.Fatalf("%s on slice %d, want 0", id, s)
		}
	}
	if pwm.Top() < 800 {
		t.Fatalf("top %d cannot express the default duty", pwm.Top())
	}
	if _, err := r.ClaimDelay("check", setups.Timer); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ClaimPixel("check", setups.Status); err != nil {
		t.Fatal(err)
	}
}

func TestTopFor(t *testing.T) {
	if got := topFor(125_000_000, 3815); got != 32764 {
		t.Fatalf("topFor(125MHz, 3815Hz) = %d, want 32764", got)
	}
	if got := topFor(125_000_000, 100); got > 1<<16 {
		t.Fatalf("topFor exceeded 16 bits: %d", got)
	}
	if topFor(125_000_000, 0) != 0 {
		t.Fatal("zero frequency should yield zero top")
	}
}
