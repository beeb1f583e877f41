//go:build pi

package lcd

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type hd44780 struct {
	registerSelection gpio.PinIO
	clockEdge         gpio.PinIO
	dataPins          [4]gpio.PinIO
}

// Init sets up the LCD pins and clears the display.
func Init() (Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize periph: %w", err)
	}

	log.Infoln("Initializing LCD")
	d := &hd44780{
		registerSelection: gpioreg.ByName(registerSelectionPin),
		clockEdge:         gpioreg.ByName(clockEdgePin),
		dataPins: [4]gpio.PinIO{
			gpioreg.ByName(data4Pin),
			gpioreg.ByName(data5Pin),
			gpioreg.ByName(data6Pin),
			gpioreg.ByName(data7Pin),
		},
	}
	if d.registerSelection == nil || d.clockEdge == nil {
		return nil, fmt.Errorf("LCD control pins not available")
	}
	for i, pin := range d.dataPins {
		if pin == nil {
			return nil, fmt.Errorf("LCD data pin %d not available", i+4)
		}
	}

	d.sendByte(0x33, command)
	d.sendByte(0x32, command)
	d.sendByte(0x28, command)
	d.sendByte(0x0C, command)
	d.sendByte(0x06, command)
	d.sendByte(0x01, command)

	return d, nil
}

func (d *hd44780) sendByte(bits byte, mode gpio.Level) {
	d.registerSelection.Out(mode)
	d.pulseByte(bits, 0x10)
	d.pulseByte(bits, 0x01)
}

func (d *hd44780) pulseByte(bits, mask byte) {
	for i, pin := range d.dataPins {
		pin.Out(gpio.Low)
		if bits&(mask<<uint(i)) != 0 {
			pin.Out(gpio.High)
		}
	}
	time.Sleep(signalDelay)
	d.clockEdge.Out(gpio.High)
	time.Sleep(signalPulse)
	d.clockEdge.Out(gpio.Low)
	time.Sleep(signalDelay)
}

func (d *hd44780) PrintLine(l Line, msg string) {
	d.sendByte(byte(l), command)
	m := fmt.Sprintf("%-16s", fit(msg))
	for i := 0; i < lineWidth; i++ {
		d.sendByte(m[i], character)
	}
}

func (d *hd44780) Clear(l Line) {
	d.PrintLine(l, "")
}
