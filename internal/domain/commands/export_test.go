package commands

import "context"

// Trigger exports trigger for testing.
func (it *ScheduleCommand) Trigger(ctx context.Context, name string) {
	it.trigger(ctx, name)
}
