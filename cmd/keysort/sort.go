package main

import (
	"fmt"
	"path/filepath"

	"keysort/internal/binding"
	"keysort/internal/config"
	"keysort/internal/history"
	"keysort/internal/journal"
	"keysort/internal/log"
	"keysort/internal/mover"
	"keysort/internal/queue"
	"keysort/internal/sorter"
	"keysort/internal/tui"
	"keysort/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newSortCmd(a *app) *cobra.Command {
	var watchDir bool

	cmd := &cobra.Command{
		Use:   "sort [directory]",
		Short: "Start a sorting session",
		Long: `Open the sorting screen on a folder of images (default is the
configured source directory). Bound keys move the current image,
':' opens the command line for bind and unbind.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Source.Directory
			if len(args) > 0 {
				dir = args[0]
			}
			watching := a.cfg.Source.Watch
			if cmd.Flags().Changed("watch") {
				watching = watchDir
			}

			if a.cfg.Settings.LogFile != "" {
				// keep log lines off the screen while the TUI owns it
				log.Configure(log.WithFile(a.cfg.Settings.LogFile))
				defer log.Close()
			}

			s, err := newSession(a.cfg, dir, watching)
			if err != nil {
				return err
			}
			defer s.Close()

			path, err := a.configPath()
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithConfigPath(path), tui.WithSourceDir(s.dir)}
			if s.watcher != nil {
				opts = append(opts, tui.WithWatcher(s.watcher.Events()))
			}

			p := tea.NewProgram(tui.New(s.ctrl, a.cfg, opts...), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}

			newPrinter(cmd.OutOrStdout(), a.cfg).Success("%s", s.summary())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchDir, "watch", "w", false, "queue images added to the folder during the session")

	return cmd
}

// session wires the sorting components for one run.
type session struct {
	dir     string
	ctrl    *sorter.Controller
	journal *journal.Journal
	watcher *watch.Watcher
}

func newSession(cfg *config.Config, dir string, watching bool) (*session, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	matcher, err := queue.NewMatcher(cfg.Source.Patterns)
	if err != nil {
		return nil, err
	}
	entries, err := queue.Scan(abs, matcher)
	if err != nil {
		return nil, err
	}

	table := binding.NewTable()
	if err := table.Load(cfg.Bindings); err != nil {
		log.LogWithError(err).Warn("Some bindings were skipped")
	}

	s := &session{dir: abs}
	opts := []sorter.Option{
		sorter.WithBindings(table),
		sorter.WithHistory(history.New(cfg.Settings.HistoryLimit)),
	}

	if cfg.Settings.Journal != "" {
		j, err := journal.Open(cfg.Settings.Journal)
		if err != nil {
			return nil, err
		}
		s.journal = j
		opts = append(opts, sorter.WithRecorder(j))
	}

	if watching {
		w, err := watch.New(matcher.Match)
		if err == nil {
			err = w.AddDirectory(abs)
		}
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			s.Close()
			return nil, err
		}
		s.watcher = w
	}

	s.ctrl = sorter.New(entries, mover.New(mover.WithVerify(cfg.Settings.Verify)), opts...)
	log.LogWithFields(log.F("directory", abs), log.F("images", len(entries))).Info("Session started")
	return s, nil
}

// summary reports the images moved this session, net of undos.
func (s *session) summary() string {
	snap := s.ctrl.Snapshot()
	return fmt.Sprintf("%d moved, %d left in %s", snap.Moved, snap.Total, s.dir)
}

func (s *session) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.LogWithError(err).Warn("Failed to close journal")
		}
	}
}
