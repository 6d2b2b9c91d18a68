package timex

import "time"

// Ms converts a millisecond count to a Duration.
func Ms(ms uint32) time.Duration { return time.Duration(ms) * time.Millisecond }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint64) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(time.Second) / freqHz
}

// Sleeper blocks on the runtime timer. On TinyGo targets time.Sleep parks the
// only goroutine on the hardware timer, which is the delay primitive we want.
type Sleeper struct{}

func (Sleeper) DelayMs(ms uint32) { time.Sleep(Ms(ms)) }
