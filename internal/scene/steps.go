package scene

import (
	"time"

	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
)

// Seconds is a duration as written in scene definitions.
type Seconds float64

func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// Op identifies a step's operation in scene files.
type Op string

const (
	OpSetColor     Op = "set-color"
	OpTurnOn       Op = "turn-on"
	OpTurnOff      Op = "turn-off"
	OpPulse        Op = "pulse"
	OpFadeTo       Op = "fade-to"
	OpBreath       Op = "breath"
	OpRainbowCycle Op = "rainbow-cycle"
	OpCylon        Op = "cylon"
	OpWipe         Op = "wipe"
	OpChase        Op = "chase"
	OpSparkle      Op = "sparkle"
	OpFlicker      Op = "flicker"
	OpStrobe       Op = "strobe"
	OpPreviewCount Op = "preview-count"
	OpWait         Op = "wait"
	OpFlashRandom  Op = "flash-sections-randomly"
)

// Step is one instruction of a scene. Only the step types of this package implement it.
type Step interface {
	Op() Op
	isStep()
}

type step struct{}

func (step) isStep() {}

type SetColor struct {
	step    `yaml:"-"`
	Color   neopixel.Color `yaml:"color"`
	Section string         `yaml:"section"`
}

type TurnOn struct {
	step    `yaml:"-"`
	Section string          `yaml:"section"`
	Color   *neopixel.Color `yaml:"color"`
}

type TurnOff struct {
	step    `yaml:"-"`
	Section string `yaml:"section"`
}

type Pulse struct {
	step     `yaml:"-"`
	Color    *neopixel.Color `yaml:"color"`
	Duration Seconds         `yaml:"duration"`
	Section  string          `yaml:"section"`
}

type FadeTo struct {
	step     `yaml:"-"`
	Color    neopixel.Color `yaml:"color"`
	Duration Seconds        `yaml:"duration"`
	Section  string         `yaml:"section"`
}

type Breath struct {
	step    `yaml:"-"`
	Section string         `yaml:"section"`
	Color   neopixel.Color `yaml:"color"`
	Period  Seconds        `yaml:"period"`
	Count   int            `yaml:"count"`
}

type RainbowCycle struct {
	step     `yaml:"-"`
	Duration Seconds `yaml:"duration"`
	Section  string  `yaml:"section"`
}

type Cylon struct {
	step     `yaml:"-"`
	Color    neopixel.Color `yaml:"color"`
	Duration Seconds        `yaml:"duration"`
	Section  string         `yaml:"section"`
}

type Wipe struct {
	step      `yaml:"-"`
	Section   string            `yaml:"section"`
	Color     neopixel.Color    `yaml:"color"`
	Direction effects.Direction `yaml:"direction"`
	Speed     Seconds           `yaml:"speed"`
}

type Chase struct {
	step    `yaml:"-"`
	Section string         `yaml:"section"`
	Color   neopixel.Color `yaml:"color"`
	Spacing int            `yaml:"spacing"`
	Speed   Seconds        `yaml:"speed"`
	Count   int            `yaml:"count"`
}

type Sparkle struct {
	step     `yaml:"-"`
	Section  string         `yaml:"section"`
	Color    neopixel.Color `yaml:"color"`
	Density  int            `yaml:"density"`
	Duration Seconds        `yaml:"duration"`
}

type Flicker struct {
	step      `yaml:"-"`
	Section   string         `yaml:"section"`
	Color     neopixel.Color `yaml:"color"`
	Intensity float64        `yaml:"intensity"`
	Duration  Seconds        `yaml:"duration"`
}

type Strobe struct {
	step      `yaml:"-"`
	Section   string         `yaml:"section"`
	Color     neopixel.Color `yaml:"color"`
	Frequency float64        `yaml:"frequency"`
	Duration  Seconds        `yaml:"duration"`
}

type PreviewCount struct {
	step  `yaml:"-"`
	Count int            `yaml:"count"`
	Color neopixel.Color `yaml:"color"`
}

// Wait pauses the scene.
type Wait struct {
	step     `yaml:"-"`
	Duration Seconds `yaml:"duration"`
}

// FlashRandom flashes every section in turn with random colors.
type FlashRandom struct {
	step    `yaml:"-"`
	Flashes int     `yaml:"flashes"`
	Delay   Seconds `yaml:"delay"`
}

func (SetColor) Op() Op     { return OpSetColor }
func (TurnOn) Op() Op       { return OpTurnOn }
func (TurnOff) Op() Op      { return OpTurnOff }
func (Pulse) Op() Op        { return OpPulse }
func (FadeTo) Op() Op       { return OpFadeTo }
func (Breath) Op() Op       { return OpBreath }
func (RainbowCycle) Op() Op { return OpRainbowCycle }
func (Cylon) Op() Op        { return OpCylon }
func (Wipe) Op() Op         { return OpWipe }
func (Chase) Op() Op        { return OpChase }
func (Sparkle) Op() Op      { return OpSparkle }
func (Flicker) Op() Op      { return OpFlicker }
func (Strobe) Op() Op       { return OpStrobe }
func (PreviewCount) Op() Op { return OpPreviewCount }
func (Wait) Op() Op         { return OpWait }
func (FlashRandom) Op() Op  { return OpFlashRandom }
