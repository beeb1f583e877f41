package effects

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// frameLock serializes frames on the shared strip. Effects take it once per frame and release it before
// sleeping, so concurrently running effects interleave frame by frame. It keeps count of the frames waiting
// for their turn so that contention shows up in the trace log.
type frameLock struct {
	waiting   int
	runLock   sync.Mutex
	countLock sync.Mutex

	// closed is guarded by runLock. Once set, frames are dropped.
	closed bool
}

type unlocker func()

// acquire waits for the strip and returns the function releasing it.
func (l *frameLock) acquire() unlocker {
	l.queued()
	l.runLock.Lock()

	l.running()
	return func() {
		l.runLock.Unlock()
	}
}

func (l *frameLock) queued() {
	l.countLock.Lock()
	defer l.countLock.Unlock()

	l.waiting++
	if l.waiting > 1 {
		log.Trace("Frames waiting for the strip: ", l.waiting)
	}
}

func (l *frameLock) running() {
	l.countLock.Lock()
	defer l.countLock.Unlock()

	l.waiting--
	if l.waiting < 0 {
		log.Warn(errors.New("number of waiting frames less than zero"))
	}
}

func (l *frameLock) waitingFrames() int {
	l.countLock.Lock()
	defer l.countLock.Unlock()

	return l.waiting
}
