package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}

	msg := entry.Message
	if err, ok := entry.Data[log.ErrorKey]; ok {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, msg)), nil
}

func main() {
	log.SetFormatter(&colorFormatter{})

	if err := RootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
