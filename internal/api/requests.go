package api

import (
	"time"

	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/section"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

type turnOnRequest struct {
	Color   *neopixel.Color `json:"color"`
	Section string          `json:"section"`
}

type turnOffRequest struct {
	Section string `json:"section"`
}

type setColorRequest struct {
	Color   *neopixel.Color `json:"color"`
	Section string          `json:"section"`
}

type pulseRequest struct {
	Color    *neopixel.Color `json:"color"`
	Duration float64         `json:"duration"`
	Section  string          `json:"section"`
}

type rainbowRequest struct {
	Duration float64 `json:"duration"`
	Section  string  `json:"section"`
}

type fadeRequest struct {
	Section  string          `json:"section"`
	Color    *neopixel.Color `json:"color"`
	Duration float64         `json:"duration"`
}

type breathRequest struct {
	Section string          `json:"section"`
	Color   *neopixel.Color `json:"color"`
	Period  float64         `json:"period"`
	Count   int             `json:"count"`
}

type cylonRequest struct {
	Section  string          `json:"section"`
	Color    *neopixel.Color `json:"color"`
	Duration float64         `json:"duration"`
}

type wipeRequest struct {
	Section   string            `json:"section"`
	Color     *neopixel.Color   `json:"color"`
	Direction effects.Direction `json:"direction"`
	Speed     float64           `json:"speed"`
}

type chaseRequest struct {
	Section string          `json:"section"`
	Color   *neopixel.Color `json:"color"`
	Spacing int             `json:"spacing"`
	Speed   float64         `json:"speed"`
	Count   int             `json:"count"`
}

type sparkleRequest struct {
	Section  string          `json:"section"`
	Color    *neopixel.Color `json:"color"`
	Density  int             `json:"density"`
	Duration float64         `json:"duration"`
}

type flickerRequest struct {
	Section   string          `json:"section"`
	Color     *neopixel.Color `json:"color"`
	Intensity float64         `json:"intensity"`
	Duration  float64         `json:"duration"`
}

type strobeRequest struct {
	Section   string          `json:"section"`
	Color     *neopixel.Color `json:"color"`
	Frequency float64         `json:"frequency"`
	Duration  float64         `json:"duration"`
}

type previewRequest struct {
	Count int             `json:"count"`
	Color *neopixel.Color `json:"color"`
}

type sectionsConfig struct {
	Sections []section.Entry `json:"sections"`
}

type statusResponse struct {
	Status string `json:"status"`
	Task   uint64 `json:"task,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
