package a

import (
	"time"
	stdtime "time"
)

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func startedAt() time.Time {
	return time.Now().UTC() // want `time.Now\(\) reads the wall clock, take the time from a Clock`
}

func elapsed(start time.Time) time.Duration {
	return time.Since(start) // want `time.Since\(\) reads the wall clock, take the time from a Clock`
}

func remaining(deadline time.Time) time.Duration {
	return time.Until(deadline) // want `time.Until\(\) reads the wall clock, take the time from a Clock`
}

func renamedImport() {
	_ = stdtime.Now() // want `time.Now\(\) reads the wall clock, take the time from a Clock`
}

var loadedAt = time.Now() // want `time.Now\(\) reads the wall clock, take the time from a Clock`

func fromClock(c *fakeClock) time.Time {
	return c.Now()
}

func durationsAreFine() time.Duration {
	return 25 * time.Minute
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:clockonly // row metadata
}

func nolintList() {
	_ = time.Now() //nolint:errcheck,clockonly
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:errcheck // want `time.Now\(\) reads the wall clock, take the time from a Clock`
}
