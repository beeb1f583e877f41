//go:build pi

package neopixel

import (
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
)

func newWS281xEngine(opts Options) (wsEngine, error) {
	opt := ws.DefaultOptions
	opt.Channels[0].Brightness = brightnessByte(opts.Brightness)
	opt.Channels[0].LedCount = opts.Capacity
	opt.Channels[0].GpioPin = opts.GPIOPin

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
