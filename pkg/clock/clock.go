// Package clock wraps jonboulle/clockwork so the unbonding-timer logic in
// stake/vault can be driven by a fake clock in tests instead of wall time.
package clock

import "github.com/jonboulle/clockwork"

// Clock is the narrow time source the engines depend on: "a
// monotonically-non-decreasing clock accessible inside an invocation"
// (SPEC_FULL §6).
type Clock = clockwork.Clock

// New returns the real wall-clock implementation.
func New() Clock { return clockwork.NewRealClock() }

// NewFake returns a fake clock pinned to a fixed instant, for tests.
func NewFake() *clockwork.FakeClock { return clockwork.NewFakeClock() }
