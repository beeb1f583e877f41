//go:build !pi

package lcd

import (
	log "github.com/sirupsen/logrus"
)

type logDisplay struct{}

// Init returns a display that logs what would have been shown.
func Init() (Display, error) {
	log.Info("Starting the LCD")
	return logDisplay{}, nil
}

func (logDisplay) PrintLine(l Line, msg string) {
	log.Debugf("LCD %v: %q", l, fit(msg))
}

func (logDisplay) Clear(l Line) {
	log.Debugf("LCD %v cleared", l)
}
