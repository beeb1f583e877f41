package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/api"
	"github.com/callebjorkell/tardis-lights/internal/app"
	"github.com/callebjorkell/tardis-lights/internal/button"
	"github.com/callebjorkell/tardis-lights/internal/config"
	"github.com/callebjorkell/tardis-lights/internal/effects"
	"github.com/callebjorkell/tardis-lights/internal/lcd"
	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	"github.com/callebjorkell/tardis-lights/internal/scheduler"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func openCore(configFile string) (*app.Core, *config.Config, error) {
	conf, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	core, err := app.New(conf)
	if err != nil {
		return nil, nil, err
	}
	return core, conf, nil
}

func closeCore(core *app.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	core.Close(ctx)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func startServer(configFile string) error {
	core, conf, err := openCore(configFile)
	if err != nil {
		return err
	}
	defer closeCore(core)

	ctx, stop := signalContext()
	defer stop()

	play := func(name string) {
		if _, err := core.PlayScene(name); err != nil {
			log.WithError(err).Warn("Unable to play scene")
		}
	}

	sched, err := scheduler.New(conf.Schedules, func(name string) bool { return core.Sequencer().Has(name) }, play)
	if err != nil {
		return err
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()

	if conf.Button.Enabled {
		events, err := button.InitButton(conf.Button.Pin)
		if err != nil {
			return err
		}
		go button.OnPress(ctx, events, func() {
			log.Infof("Button pressed, playing %q", conf.Button.Scene)
			play(conf.Button.Scene)
		})
	}

	if conf.Display.Enabled {
		d, err := lcd.Init()
		if err != nil {
			return err
		}
		board := lcd.NewStatusBoard(d)
		core.Runner.OnEvent(board.Notify)
		go board.Run(ctx)
	}

	server := api.NewServer(core, conf.Listen)
	server.SetSchedules(sched.Entries)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func listScenes(w io.Writer, configFile string) error {
	core, _, err := openCore(configFile)
	if err != nil {
		return err
	}
	defer closeCore(core)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range core.Sequencer().Scenes() {
		fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
	}
	return tw.Flush()
}

func playScene(configFile, name string) error {
	core, _, err := openCore(configFile)
	if err != nil {
		return err
	}
	defer closeCore(core)

	ctx, stop := signalContext()
	defer stop()

	if _, err := core.PlayScene(name); err != nil {
		return err
	}
	if err := core.Runner.Wait(ctx); err != nil {
		log.Info("Interrupted, waiting for the current scene to finish...")
	}
	return nil
}

func previewCount(configFile string, count int, c neopixel.Color) error {
	core, _, err := openCore(configFile)
	if err != nil {
		return err
	}
	defer closeCore(core)

	if count < 0 || count > core.Capacity() {
		return fmt.Errorf("count must be between 0 and %d", core.Capacity())
	}

	ctx, stop := signalContext()
	defer stop()

	core.Run("preview", func(e *effects.Engine) {
		e.PreviewCount(count, c)
	})
	log.Infof("Lighting %d of %d pixels, press Ctrl+C to stop", count, core.Capacity())
	<-ctx.Done()

	return nil
}
