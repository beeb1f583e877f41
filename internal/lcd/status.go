package lcd

import (
	"context"
	"fmt"

	"github.com/callebjorkell/tardis-lights/internal/tasks"
	log "github.com/sirupsen/logrus"
)

const idleTitle = "TARDIS Lights"

// StatusBoard shows the most recently started task, and the idle title once nothing is running.
type StatusBoard struct {
	display Display
	events  chan tasks.Event
	running map[uint64]string
	order   []uint64
}

func NewStatusBoard(d Display) *StatusBoard {
	return &StatusBoard{
		display: d,
		events:  make(chan tasks.Event, 16),
		running: make(map[uint64]string),
	}
}

// Notify queues a task event for display. It is meant to be passed to tasks.Runner.OnEvent and never blocks.
func (b *StatusBoard) Notify(e tasks.Event) {
	select {
	case b.events <- e:
	default:
		log.Debugf("LCD busy, skipping update for task %d", e.ID)
	}
}

// Run updates the display until ctx is done.
func (b *StatusBoard) Run(ctx context.Context) {
	b.show()
	for {
		select {
		case <-ctx.Done():
			b.display.Clear(Line1)
			b.display.Clear(Line2)
			return
		case e := <-b.events:
			b.apply(e)
			b.show()
		}
	}
}

func (b *StatusBoard) apply(e tasks.Event) {
	switch e.State {
	case tasks.Started:
		b.running[e.ID] = e.Name
		b.order = append(b.order, e.ID)
	case tasks.Finished:
		delete(b.running, e.ID)
		for i, id := range b.order {
			if id == e.ID {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

func (b *StatusBoard) show() {
	if len(b.order) == 0 {
		b.display.PrintLine(Line1, idleTitle)
		b.display.Clear(Line2)
		return
	}

	latest := b.order[len(b.order)-1]
	b.display.PrintLine(Line1, b.running[latest])
	if n := len(b.order); n > 1 {
		b.display.PrintLine(Line2, fmt.Sprintf("+%d more running", n-1))
	} else {
		b.display.Clear(Line2)
	}
}
