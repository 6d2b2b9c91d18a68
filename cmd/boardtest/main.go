// cmd/boardtest/main.go
package main

import (
	"time"

	"lightmotor-go/services/hal"
	"lightmotor-go/x/logx"
)

// ---------- Configuration ----------

const (
	colorDwellMs = 500
	pulseMs      = 1000
	restMs       = 500
	haltMs       = 500_000

	// Low duty so a bench motor only creeps.
	pulseDuty = 200

	// Cycles: 0 = loop forever
	cyclesToRun = 1
)

// ---------- Steps ----------

type step struct {
	name string
	do   func() error
	ms   uint32
}

func steps(d *hal.Devices) []step {
	return []step{
		{"off", d.Light.Off, colorDwellMs},
		{"red", d.Light.Red, colorDwellMs},
		{"yellow", d.Light.Yellow, colorDwellMs},
		{"green", d.Light.Green, colorDwellMs},
		{"off", d.Light.Off, 0},
		{"forward", func() error { return d.Motor.Forward(pulseDuty) }, pulseMs},
		{"stop", d.Motor.Stop, restMs},
		{"backward", func() error { return d.Motor.Backward(pulseDuty) }, pulseMs},
		{"stop", d.Motor.Stop, restMs},
	}
}

// ---------- Main ----------

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	d, err := hal.Open()
	if err != nil {
		logx.New("boardtest", logx.Println).Print("open failed", logx.Err(err))
		halt(nil)
	}
	log := logx.New("boardtest", d.Diag)

	pass := true
	for cycle := 1; cyclesToRun == 0 || cycle <= cyclesToRun; cycle++ {
		log.Print("cycle", logx.Int("n", int64(cycle)))
		for _, s := range steps(d) {
			if !runStep(log, s) {
				pass = false
				continue
			}
			log.Print(s.name, logx.Str("color", d.Light.Color().String()),
				logx.Str("motor", d.Motor.State().Dir.String()))
			if s.ms > 0 {
				d.Delay.DelayMs(s.ms)
			}
		}
	}

	// Leave the light showing the verdict.
	verdict := step{"verdict", d.Light.Green, 0}
	if pass {
		log.Print("[PASS] indicator and motor responded")
	} else {
		verdict.do = d.Light.Red
		log.Print("[FAIL] see above")
	}
	runStep(log, verdict)
	runStep(log, step{"final stop", d.Motor.Stop, 0})
	halt(d)
}

// runStep performs s and reports a failure on log.
func runStep(log *logx.Logger, s step) bool {
	if err := s.do(); err != nil {
		log.Print("[FAIL] "+s.name, logx.Err(err))
		return false
	}
	return true
}

func halt(d *hal.Devices) {
	for {
		if d != nil {
			d.Delay.DelayMs(haltMs)
		} else {
			time.Sleep(haltMs * time.Millisecond)
		}
	}
}
