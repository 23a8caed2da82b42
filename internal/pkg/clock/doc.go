// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. OTP validity windows are pure time arithmetic, so a
// fake clock makes expiry behavior fully deterministic in tests.
package clock
