package commands

import "time"

// WithClock replaces the clock of a BumpCommand for testing.
func (it *BumpCommand) WithClock(now func() time.Time) *BumpCommand {
	it.now = now
	return it
}

// WithClock replaces the clock of a ChangelogCommand for testing.
func (it *ChangelogCommand) WithClock(now func() time.Time) *ChangelogCommand {
	it.now = now
	return it
}
