package button

import (
	"context"
	"fmt"
)

type ButtonEvent struct {
	Pressed bool
}

func (b ButtonEvent) String() string {
	action := "pressed"
	if !b.Pressed {
		action = "released"
	}
	return fmt.Sprintf("Button was %v", action)
}

// OnPress calls fn for every press on events until ctx is done or events is closed. Releases are ignored.
func OnPress(ctx context.Context, events <-chan ButtonEvent, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Pressed {
				fn()
			}
		}
	}
}
