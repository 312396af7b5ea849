// Package testutil provides testing utilities shared across packages.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn
// goroutines. It verifies that none were leaked during the test.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreSpeakerGoroutines returns goleak options for tests that touch the
// beep output; the speaker keeps one mixing goroutine alive for the process.
func IgnoreSpeakerGoroutines() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreAnyFunction("github.com/gopxl/beep/v2/speaker.Init.func1"),
		goleak.IgnoreAnyFunction("github.com/ebitengine/oto/v3.(*context).loop"),
	}
}
