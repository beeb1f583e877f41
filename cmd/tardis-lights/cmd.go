package main

import (
	"fmt"
	"strconv"

	"github.com/callebjorkell/tardis-lights/internal/neopixel"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "tardis-lights.yaml"

func RootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "tardis-lights",
		Short: "LED strip effects and scenes for the TARDIS",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Lookup("debug").Changed {
				log.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStartCmd(&configFile))
	rootCmd.AddCommand(newScenesCmd(&configFile))
	rootCmd.AddCommand(newPlayCmd(&configFile))
	rootCmd.AddCommand(newPreviewCmd(&configFile))
	rootCmd.PersistentFlags().Bool("debug", false, "Turn on debug logging.")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile, "Configuration file to use.")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

func newStartCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Starts the lights server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(*configFile)
		},
	}
}

func newScenesCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "Lists the available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScenes(cmd.OutOrStdout(), *configFile)
		},
	}
}

func newPlayCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play <scene>",
		Short: "Plays a single scene and exits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return playScene(*configFile, args[0])
		},
	}
}

func newPreviewCmd(configFile *string) *cobra.Command {
	color := "#ffffff"
	cmd := &cobra.Command{
		Use:   "preview <count>",
		Short: "Lights the first count pixels until interrupted, for measuring out sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			c, err := neopixel.ParseColor(color)
			if err != nil {
				return err
			}
			return previewCount(*configFile, count, c)
		},
	}

	cmd.Flags().StringVar(&color, "color", color, "Color of the lit pixels.")

	return cmd
}
