package main

import (
	"os"
	"path/filepath"

	"keysort/internal/queue"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "List the images a sorting session would queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Source.Directory
			if len(args) > 0 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			matcher, err := queue.NewMatcher(a.cfg.Source.Patterns)
			if err != nil {
				return err
			}
			entries, err := queue.Scan(abs, matcher)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), a.cfg)
			if len(entries) == 0 {
				out.Warning("No images found in %s", abs)
				return nil
			}

			var total uint64
			out.Header("Images in " + abs + ":")
			for _, e := range entries {
				var size uint64
				if info, err := os.Stat(e.SourcePath); err == nil {
					size = uint64(info.Size())
				}
				total += size
				out.Line("  %-40s %10s", e.Name(), humanize.Bytes(size))
			}
			out.Line("%d images, %s", len(entries), humanize.Bytes(total))
			return nil
		},
	}
}
