package main

import (
	"context"
	"time"

	"lightmotor-go/bus"
	"lightmotor-go/services/hal"
	"lightmotor-go/services/sequence"
	"lightmotor-go/types"
	"lightmotor-go/x/logx"
)

func main() {
	// Claim first so every output is driven low from power-on.
	dev, err := hal.Open()
	if err != nil {
		fatal(logx.New("main", logx.Println), err)
	}
	// Allow USB CDC to enumerate before we print; the motor lines written
	// by hal.Open still reach the diag UART.
	time.Sleep(2 * time.Second)
	log := logx.New("main", dev.Diag)
	log.Print("boot")

	b := bus.NewBus(8)
	// Subscribe before the sequence starts so no transition is missed.
	go monitor(b.NewConnection("monitor").Subscribe(bus.T("#")), log)

	seq := sequence.New(dev.Light, dev.Motor, dev.Delay, sequence.WithBus(b.NewConnection("sequence")))
	if err := seq.Run(context.Background()); err != nil {
		fatal(log, err)
	}
}

// monitor prints sequencer transitions. It never touches hardware.
func monitor(sub *bus.Subscription, log *logx.Logger) {
	for m := range sub.Channel() {
		switch v := m.Payload.(type) {
		case types.PhaseValue:
			log.Print("phase", logx.Str("name", v.Phase), logx.Int("cycle", int64(v.Cycle)))
		case types.IndicatorValue:
			log.Print("indicator", logx.Str("color", v.Color))
		case types.MotorValue:
			log.Print("motor", logx.Str("dir", v.Dir), logx.Uint("duty", uint64(v.Duty)))
		}
	}
}

func fatal(log *logx.Logger, err error) {
	log.Print("fatal", logx.Err(err))
	panic(err)
}
