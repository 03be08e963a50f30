package main

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"keysort/internal/binding"
	"keysort/internal/config"
	"keysort/internal/errors"

	"github.com/spf13/cobra"
)

func newBindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bind <key> <dir>",
		Short: "Bind a key to a destination folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkBindable(a.cfg, key); err != nil {
				return err
			}

			abs, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			dest, err := binding.ValidateDestination(abs)
			if err != nil {
				return err
			}

			a.cfg.Bindings[key] = dest
			if err := a.save(); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), a.cfg).Success("Bound %s to %s", key, dest)
			return nil
		},
	}
}

func newUnbindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unbind <key>",
		Short: "Remove a key binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			key := args[0]
			if _, ok := a.cfg.Bindings[key]; !ok {
				out.Warning("Key %s is not bound", key)
				return nil
			}

			delete(a.cfg.Bindings, key)
			if err := a.save(); err != nil {
				return err
			}
			out.Success("Unbound %s", key)
			return nil
		},
	}
}

func newBindingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "List key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)

			keys := a.cfg.BindingKeys()
			if len(keys) == 0 {
				out.Warning("No keys bound. Use 'keysort bind <key> <dir>'")
				return nil
			}

			out.Header("Key bindings:")
			for _, k := range keys {
				dest := a.cfg.Bindings[k]
				if _, err := binding.ValidateDestination(dest); err != nil {
					out.Line("  %s %s (missing)", out.Key(k), dest)
					continue
				}
				out.Line("  %s %s", out.Key(k), dest)
			}
			return nil
		},
	}
}

// checkBindable rejects keys the sorting screen could never deliver.
func checkBindable(cfg *config.Config, key string) error {
	if utf8.RuneCountInString(key) != 1 {
		return errors.NewConfigError(fmt.Sprintf("key %q must be a single character", key), "bindings", errors.InvalidConfig, nil)
	}
	if cfg.IsReserved(key) {
		return errors.NewConfigError(fmt.Sprintf("key %q is reserved", key), "bindings", errors.InvalidConfig, nil)
	}
	return nil
}

func (a *app) save() error {
	path, err := a.configPath()
	if err != nil {
		return err
	}
	return config.SaveConfig(a.cfg, path)
}
