package main

import (
	"keysort/internal/config"
	"keysort/internal/log"

	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

// configPath returns --config or the default location.
func (a *app) configPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	return config.DefaultPath()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "keysort",
		Short: "Sort images into folders one keystroke at a time",
		Long: `keysort walks through the images in a folder one at a time.
Press a bound key to move the current image into that key's folder,
use the arrow keys to skip around and ctrl+z to undo.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetDebug(a.debug)

			path, err := a.configPath()
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfigFile(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			log.LogWithFields(log.F("config", path)).Debug("Loaded configuration")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/keysort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(newSortCmd(a))
	rootCmd.AddCommand(newBindCmd(a))
	rootCmd.AddCommand(newUnbindCmd(a))
	rootCmd.AddCommand(newBindingsCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newLogCmd(a))

	return rootCmd
}
