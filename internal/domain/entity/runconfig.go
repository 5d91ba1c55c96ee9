package entity

import "time"

const (
	DefaultTimeoutMs float64 = 30_000
	SignalRTimeoutMs float64 = 5_000
)

// RunConfiguration is resolved once at process start and never mutated afterwards.
type RunConfiguration struct {
	Headless         bool
	SlowMoMs         float64
	DefaultTimeoutMs float64
	// SignalRTimeoutMs bounds waits on real-time updates pushed by the server.
	SignalRTimeoutMs float64
}

func DefaultRunConfiguration() RunConfiguration {
	return RunConfiguration{
		Headless:         true,
		SlowMoMs:         0,
		DefaultTimeoutMs: DefaultTimeoutMs,
		SignalRTimeoutMs: SignalRTimeoutMs,
	}
}

func (c RunConfiguration) SlowMo() time.Duration {
	return msToDuration(c.SlowMoMs)
}

func (c RunConfiguration) DefaultTimeout() time.Duration {
	if c.DefaultTimeoutMs <= 0 {
		return msToDuration(DefaultTimeoutMs)
	}
	return msToDuration(c.DefaultTimeoutMs)
}

func (c RunConfiguration) SignalRTimeout() time.Duration {
	if c.SignalRTimeoutMs <= 0 {
		return msToDuration(SignalRTimeoutMs)
	}
	return msToDuration(c.SignalRTimeoutMs)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
