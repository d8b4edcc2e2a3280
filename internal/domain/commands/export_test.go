package commands

import "time"

// SetClock replaces the clock used to date notifications.
func (it *UpdateCommand) SetClock(now func() time.Time) { it.now = now }

// VerifyChecksum exports verifyChecksum for testing.
var VerifyChecksum = verifyChecksum //nolint:gochecknoglobals // test export
