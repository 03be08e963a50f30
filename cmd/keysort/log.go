package main

import (
	"os"
	"path/filepath"

	"keysort/internal/journal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLogCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent moves and undos from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout(), a.cfg)

			path := a.cfg.Settings.Journal
			if path == "" {
				out.Warning("Journal is disabled (settings.journal is empty)")
				return nil
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				out.Warning("No journal yet at %s", path)
				return nil
			}

			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				out.Warning("Journal is empty")
				return nil
			}

			out.Header("Recent activity:")
			for _, e := range entries {
				when := humanize.Time(e.CreatedAt)
				switch e.Action {
				case journal.ActionUndo:
					out.Line("  %-14s undo  %s <- %s", when, e.OriginalPath, e.FinalPath)
				default:
					out.Line("  %-14s move  %s -> %s", when, filepath.Base(e.OriginalPath), e.FinalPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 20, "number of entries to show")

	return cmd
}
