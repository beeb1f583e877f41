package scene

import (
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
)

var (
	red    = neopixel.RGB(255, 0, 0)
	green  = neopixel.RGB(0, 255, 0)
	blue   = neopixel.RGB(0, 0, 255)
	tardis = neopixel.RGB(0, 40, 120)
)

// Builtin returns the scenes compiled into the binary.
func Builtin() []Scene {
	return []Scene{
		{
			Name:        "Welcome",
			Description: "Blue, fading through green to red before going dark",
			Steps: []Step{
				SetColor{Color: blue},
				Wait{Duration: 0.5},
				FadeTo{Color: green, Duration: 1.5},
				Wait{Duration: 0.5},
				FadeTo{Color: red, Duration: 1.5},
				Wait{Duration: 0.5},
				TurnOff{},
			},
		},
		{
			Name:        "Red Alert",
			Description: "Three red pulses",
			Steps: []Step{
				SetColor{Color: red},
				Pulse{Color: &red, Duration: 0.5},
				Pulse{Color: &red, Duration: 0.5},
				Pulse{Color: &red, Duration: 0.5},
				TurnOff{},
			},
		},
		{
			Name:        "Flash Sections",
			Description: "Flash every section with random colors, one after the other",
			Steps: []Step{
				FlashRandom{Flashes: 3, Delay: 0.15},
			},
		},
		{
			Name:        "Cylon",
			Description: "A red scanner sweeping back and forth",
			Steps: []Step{
				Cylon{Color: red, Duration: 2},
			},
		},
		{
			Name:        "Materialise",
			Description: "The lamp on top breathes while the box fades into view",
			Steps: []Step{
				FadeTo{Color: tardis, Duration: 2},
				Breath{Section: "Top Light", Color: neopixel.White, Period: 1.5, Count: 4},
				Wait{Duration: 1},
				FadeTo{Color: neopixel.Black, Duration: 1},
			},
		},
	}
}
