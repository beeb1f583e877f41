package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/config"
	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/scene"
	"github.com/callebjorkell/tardis-lights/internal/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T, extra string) *Core {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.yaml")
	content := "strip: {capacity: 20}\n"
	if extra != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes.yaml"), []byte(extra), 0644))
		content += "scenesFile: scenes.yaml\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

func TestNewCore(t *testing.T) {
	c := newTestCore(t, `
scenes:
  - name: Lamp
    steps:
      - op: turn-on
        section: Top Light
`)

	assert.Equal(t, 20, c.Capacity())
	assert.Equal(t, config.DefaultSections, c.Sections())
	assert.True(t, c.Sequencer().Has("Welcome"))
	assert.True(t, c.Sequencer().Has("Lamp"))
	assert.Equal(t, section.Range{Start: 16, End: 18}, c.Engine().Sections().Resolve("Top Light"))
}

func TestNewCoreBadScenes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes.yaml"), []byte("scenes: [{name: x, steps: [{op: nope}]}]"), 0644))

	_, err := New(&config.Config{
		ScenesFile:   filepath.Join(dir, "scenes.yaml"),
		SectionsFile: filepath.Join(dir, "sections.yaml"),
	})

	var unknown *scene.UnknownOperationError
	assert.True(t, errors.As(err, &unknown))
}

func TestReconfigure(t *testing.T) {
	c := newTestCore(t, "")
	before := c.Engine()

	entries := []section.Entry{{Name: "Door", Count: 5}, {Name: "Lamp", Count: 1}}
	require.NoError(t, c.Reconfigure(entries))

	assert.Equal(t, entries, c.Sections())
	assert.NotSame(t, before, c.Engine())
	assert.Equal(t, section.Range{Start: 5, End: 6}, c.Engine().Sections().Resolve("Lamp"))

	saved, err := config.LoadSections(c.sectionsFile)
	require.NoError(t, err)
	assert.Equal(t, entries, saved)

	err = c.Reconfigure([]section.Entry{{Name: "Huge", Count: 500}})
	assert.ErrorIs(t, err, section.ErrConfiguration)
	assert.Equal(t, entries, c.Sections(), "a rejected layout changes nothing")
}

func TestRunAndPlay(t *testing.T) {
	c := newTestCore(t, `
scenes:
  - name: Blink
    steps:
      - op: turn-on
      - op: wait
        duration: 0.01
      - op: turn-off
`)

	c.Run("color", func(e *effects.Engine) {
		e.SetColor(neopixel.RGB(1, 2, 3), "Extra")
	})

	_, err := c.PlayScene("nope")
	var unknown *scene.UnknownSceneError
	assert.True(t, errors.As(err, &unknown))

	id, err := c.PlayScene("Blink")
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.NoError(t, c.Runner.Wait(context.Background()))
	assert.Empty(t, c.Runner.Running())
}

func TestConcurrentReconfigureKeepsFileInSync(t *testing.T) {
	c := newTestCore(t, "")

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, c.Reconfigure([]section.Entry{{Name: fmt.Sprintf("S%d", n), Count: n}}))
		}(i)
	}
	wg.Wait()

	saved, err := config.LoadSections(c.sectionsFile)
	require.NoError(t, err)
	assert.Equal(t, c.Sections(), saved)
}

func TestCloseWithTaskStillRunning(t *testing.T) {
	c := newTestCore(t, "")

	c.Run("rainbow", func(e *effects.Engine) {
		e.RainbowCycle(300*time.Millisecond, "")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	c.Close(ctx)

	require.NoError(t, c.Runner.Wait(context.Background()))
}
