package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/scene"
	"github.com/callebjorkell/tardis-lights/internal/section"
)

var errNoColor = errors.New("color is required")

func target(section string) string {
	if section == "" {
		return "all"
	}
	return section
}

func (s *Server) started(w http.ResponseWriter, id uint64, format string, args ...any) {
	writeJSON(w, http.StatusAccepted, statusResponse{Status: fmt.Sprintf(format, args...), Task: id})
}

func (s *Server) getSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.core.Sections())
}

func (s *Server) getSectionsConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sectionsConfig{Sections: s.core.Sections()})
}

func (s *Server) saveSectionsConfig(w http.ResponseWriter, r *http.Request) {
	var req sectionsConfig
	if !decode(w, r, &req) {
		return
	}

	if err := s.core.Reconfigure(req.Sections); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, section.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "Configuration saved"})
}

func (s *Server) turnOn(w http.ResponseWriter, r *http.Request) {
	var req turnOnRequest
	if !decode(w, r, &req) {
		return
	}
	id := s.core.Run("turn on", func(e *effects.Engine) {
		e.TurnOn(req.Section, req.Color)
	})
	s.started(w, id, "LEDs turned on for %s", target(req.Section))
}

func (s *Server) turnOff(w http.ResponseWriter, r *http.Request) {
	var req turnOffRequest
	if !decode(w, r, &req) {
		return
	}
	id := s.core.Run("turn off", func(e *effects.Engine) {
		e.TurnOff(req.Section)
	})
	s.started(w, id, "LEDs turned off for %s", target(req.Section))
}

func (s *Server) setColor(w http.ResponseWriter, r *http.Request) {
	var req setColorRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("color", func(e *effects.Engine) {
		e.SetColor(c, req.Section)
	})
	s.started(w, id, "Color set to %v for %s", c, target(req.Section))
}

func (s *Server) pulse(w http.ResponseWriter, r *http.Request) {
	req := pulseRequest{Duration: 1}
	if !decode(w, r, &req) {
		return
	}
	id := s.core.Run("pulse", func(e *effects.Engine) {
		e.Pulse(req.Color, seconds(req.Duration), req.Section)
	})
	s.started(w, id, "Pulse effect applied to %s", target(req.Section))
}

func (s *Server) rainbow(w http.ResponseWriter, r *http.Request) {
	req := rainbowRequest{Duration: 5}
	if !decode(w, r, &req) {
		return
	}
	id := s.core.Run("rainbow", func(e *effects.Engine) {
		e.RainbowCycle(seconds(req.Duration), req.Section)
	})
	s.started(w, id, "Rainbow effect started on %s", target(req.Section))
}

func (s *Server) fade(w http.ResponseWriter, r *http.Request) {
	req := fadeRequest{Duration: 1}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("fade", func(e *effects.Engine) {
		e.FadeTo(c, seconds(req.Duration), req.Section)
	})
	s.started(w, id, "Fade started on %s", target(req.Section))
}

func (s *Server) breath(w http.ResponseWriter, r *http.Request) {
	req := breathRequest{Period: 5, Count: 3}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("breath", func(e *effects.Engine) {
		e.Breath(req.Section, c, seconds(req.Period), req.Count)
	})
	s.started(w, id, "Breath effect started on %s", target(req.Section))
}

func (s *Server) cylon(w http.ResponseWriter, r *http.Request) {
	c := neopixel.RGB(255, 0, 0)
	req := cylonRequest{Color: &c, Duration: 2}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c = *req.Color
	id := s.core.Run("cylon", func(e *effects.Engine) {
		e.Cylon(c, seconds(req.Duration), req.Section)
	})
	s.started(w, id, "Cylon effect started on %s", target(req.Section))
}

func (s *Server) wipe(w http.ResponseWriter, r *http.Request) {
	req := wipeRequest{Direction: effects.Forward, Speed: 0.1}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("wipe", func(e *effects.Engine) {
		e.Wipe(req.Section, c, req.Direction, seconds(req.Speed))
	})
	s.started(w, id, "Wipe effect started on %s", target(req.Section))
}

func (s *Server) chase(w http.ResponseWriter, r *http.Request) {
	req := chaseRequest{Spacing: 3, Speed: 0.1, Count: 50}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("chase", func(e *effects.Engine) {
		e.Chase(req.Section, c, req.Spacing, seconds(req.Speed), req.Count)
	})
	s.started(w, id, "Chase effect started on %s", target(req.Section))
}

func (s *Server) sparkle(w http.ResponseWriter, r *http.Request) {
	req := sparkleRequest{Density: 5, Duration: 5}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("sparkle", func(e *effects.Engine) {
		e.Sparkle(req.Section, c, req.Density, seconds(req.Duration))
	})
	s.started(w, id, "Sparkle effect started on %s", target(req.Section))
}

func (s *Server) flicker(w http.ResponseWriter, r *http.Request) {
	req := flickerRequest{Intensity: 0.5, Duration: 5}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("flicker", func(e *effects.Engine) {
		e.Flicker(req.Section, c, req.Intensity, seconds(req.Duration))
	})
	s.started(w, id, "Flicker effect started on %s", target(req.Section))
}

func (s *Server) strobe(w http.ResponseWriter, r *http.Request) {
	req := strobeRequest{Frequency: 10, Duration: 5}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		writeError(w, http.StatusBadRequest, errNoColor)
		return
	}
	c := *req.Color
	id := s.core.Run("strobe", func(e *effects.Engine) {
		e.Strobe(req.Section, c, req.Frequency, seconds(req.Duration))
	})
	s.started(w, id, "Strobe effect started on %s", target(req.Section))
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	c := neopixel.White
	req := previewRequest{Color: &c}
	if !decode(w, r, &req) {
		return
	}
	if req.Color == nil {
		req.Color = &c
	}
	color := *req.Color
	id := s.core.Run("preview", func(e *effects.Engine) {
		e.PreviewCount(req.Count, color)
	})
	s.started(w, id, "Previewing %d pixels", req.Count)
}

func (s *Server) getScenes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]scene.Info{"scenes": s.core.Sequencer().Scenes()})
}

func (s *Server) playScene(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	id, err := s.core.PlayScene(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.started(w, id, "Playing scene: %s", name)
}
