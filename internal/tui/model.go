// Package tui is the interactive sorting screen. Every reserved key drives
// navigation, every other character is looked up in the binding table.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"keysort/internal/binding"
	"keysort/internal/config"
	"keysort/internal/errors"
	"keysort/internal/log"
	"keysort/internal/sorter"
	"keysort/internal/tui/common"
	"keysort/internal/tui/components"
	"keysort/internal/tui/messages"
	"keysort/internal/tui/styles"
	"keysort/internal/tui/views"
	"keysort/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model for a sorting session.
type Model struct {
	ctrl    *sorter.Controller
	cfg     *config.Config
	cfgPath string
	save    func(*config.Config, string) error
	source  string

	keys   keyMap
	help   help.Model
	input  textinput.Model
	status *components.StatusBar
	theme  styles.Theme

	mode   common.Mode
	events <-chan watch.FileEvent
}

// Option configures a Model.
type Option func(*Model)

// WithConfigPath saves binding changes to path.
func WithConfigPath(path string) Option {
	return func(m *Model) {
		m.cfgPath = path
	}
}

// WithSourceDir overrides the source folder shown, leaving the config as is.
func WithSourceDir(dir string) Option {
	return func(m *Model) {
		m.source = dir
	}
}

// WithWatcher queues the files reported on events.
func WithWatcher(events <-chan watch.FileEvent) Option {
	return func(m *Model) {
		m.events = events
	}
}

// WithSaveFunc replaces config.SaveConfig.
func WithSaveFunc(save func(*config.Config, string) error) Option {
	return func(m *Model) {
		m.save = save
	}
}

func New(ctrl *sorter.Controller, cfg *config.Config, opts ...Option) *Model {
	theme := styles.NewTheme(cfg.Theme.Name)

	in := textinput.New()
	in.Prompt = config.CommandKey
	in.Placeholder = "bind <key> <dir> | unbind <key>"

	m := &Model{
		ctrl:   ctrl,
		cfg:    cfg,
		save:   config.SaveConfig,
		keys:   newKeyMap(cfg),
		help:   help.New(),
		input:  in,
		status: components.NewStatusBar(theme),
		theme:  theme,
		mode:   common.Normal,
		source: cfg.Source.Directory,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForFile()
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.theme)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 4
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case messages.OutcomeMsg:
		return m, m.handleOutcome(msg)
	case messages.FileAddedMsg:
		if m.ctrl.AddEntry(msg.Event.Path) && !m.status.Loading() {
			m.status.SetText("Queued " + filepath.Base(msg.Event.Path))
		}
		return m, m.waitForFile()
	case messages.WatchClosedMsg:
		m.events = nil
	case messages.ConfigSavedMsg:
		if msg.Error != nil {
			m.status.SetError("Could not save bindings: " + msg.Error.Error())
		}
	case spinner.TickMsg:
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == common.Command {
		return m.handleCommandMode(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	// one command at a time
	if m.status.Loading() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.dispatch(sorter.Command{Kind: sorter.Next})
	case key.Matches(msg, m.keys.Previous):
		return m, m.dispatch(sorter.Command{Kind: sorter.Previous})
	case key.Matches(msg, m.keys.Undo):
		return m, m.dispatch(sorter.Command{Kind: sorter.Undo})
	case key.Matches(msg, m.keys.Command):
		m.mode = common.Command
		m.input.Reset()
		return m, m.input.Focus()
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt {
		return m, m.dispatch(sorter.Press(binding.Key(string(msg.Runes))))
	}
	return m, nil
}

func (m *Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.exitCommandMode()
		return m, nil
	case tea.KeyEnter:
		line := m.input.Value()
		m.exitCommandMode()
		return m, m.executeCommand(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) exitCommandMode() {
	m.mode = common.Normal
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) executeCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if m.status.Loading() {
		m.status.SetError("Busy, try again")
		return nil
	}

	switch fields[0] {
	case "bind":
		if len(fields) < 3 {
			m.status.SetError("Usage: bind <key> <dir>")
			return nil
		}
		k := fields[1]
		if err := m.checkBindable(k); err != nil {
			m.status.SetError(err.Error())
			return nil
		}
		// the directory may contain spaces
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "bind"))
		dir := strings.TrimSpace(strings.TrimPrefix(rest, k))
		dest, err := expandPath(dir)
		if err != nil {
			m.status.SetError(err.Error())
			return nil
		}
		return m.dispatch(sorter.BindKey(binding.Key(k), dest))
	case "unbind":
		if len(fields) != 2 {
			m.status.SetError("Usage: unbind <key>")
			return nil
		}
		return m.dispatch(sorter.UnbindKey(binding.Key(fields[1])))
	case "q", "quit":
		return tea.Quit
	}

	m.status.SetError("Unknown command: " + fields[0])
	return nil
}

func (m *Model) checkBindable(k string) error {
	if utf8.RuneCountInString(k) != 1 {
		return fmt.Errorf("key %q must be a single character", k)
	}
	if m.cfg.IsReserved(k) {
		return fmt.Errorf("key %q is reserved", k)
	}
	return nil
}

func expandPath(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Abs(dir)
}

// dispatch runs cmd on the controller off the UI goroutine.
func (m *Model) dispatch(cmd sorter.Command) tea.Cmd {
	m.status.SetLoading(true)
	m.status.SetText(describe(cmd))

	ctrl := m.ctrl
	run := func() tea.Msg {
		return messages.OutcomeMsg{Command: cmd, Outcome: ctrl.Dispatch(cmd)}
	}
	return tea.Batch(m.status.Tick, run)
}

func describe(cmd sorter.Command) string {
	switch cmd.Kind {
	case sorter.KeyPress:
		return "Moving..."
	case sorter.Undo:
		return "Undoing..."
	case sorter.Bind, sorter.Unbind:
		return "Updating bindings..."
	default:
		return ""
	}
}

func (m *Model) handleOutcome(msg messages.OutcomeMsg) tea.Cmd {
	m.status.SetLoading(false)
	out := msg.Outcome

	if out.Err != nil {
		m.status.SetError(out.Err.Error())
		return nil
	}
	if out.Kind == errors.NoBindingForKey {
		m.status.SetError(fmt.Sprintf("No binding for key %q", msg.Command.Key))
		return nil
	}

	switch out.Command {
	case sorter.KeyPress:
		if out.Record != nil {
			m.status.SetText(fmt.Sprintf("Moved %s to %s", filepath.Base(out.Record.OriginalPath), out.Record.FinalPath))
		} else {
			m.status.SetText("")
		}
	case sorter.Undo:
		if out.Record != nil {
			m.status.SetText("Restored " + out.Record.OriginalPath)
		} else {
			m.status.SetText("Nothing to undo")
		}
	case sorter.Bind, sorter.Unbind:
		return m.saveBindings(msg.Command)
	default:
		m.status.SetText("")
	}
	return nil
}

// saveBindings applies a bind or unbind to the configured bindings and
// writes them out. Only the command's key changes: bindings the table could
// not load, such as folders on an unmounted drive, are kept.
func (m *Model) saveBindings(cmd sorter.Command) tea.Cmd {
	key := string(cmd.Key)
	bindings := make(map[string]string, len(m.cfg.Bindings)+1)
	for k, v := range m.cfg.Bindings {
		bindings[k] = v
	}

	switch cmd.Kind {
	case sorter.Bind:
		dest, ok := m.ctrl.Bindings()[key]
		if !ok || bindings[key] == dest {
			m.status.SetText("")
			return nil
		}
		bindings[key] = dest
	case sorter.Unbind:
		if _, ok := bindings[key]; !ok {
			m.status.SetText("Key " + key + " is not bound")
			return nil
		}
		delete(bindings, key)
	}

	m.cfg.Bindings = bindings
	m.status.SetText("Bindings updated")
	if m.cfgPath == "" {
		return nil
	}

	cfg := *m.cfg
	path := m.cfgPath
	save := m.save
	return func() tea.Msg {
		err := save(&cfg, path)
		if err != nil {
			log.LogWithError(err).With(log.F("path", path)).Error("Failed to save bindings")
		} else {
			log.LogWithFields(log.F("path", path)).Debug("Saved bindings")
		}
		return messages.ConfigSavedMsg{Path: path, Error: err}
	}
}

func (m *Model) waitForFile() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.WatchClosedMsg{}
		}
		return messages.FileAddedMsg{Event: ev}
	}
}

// Getters

func (m *Model) Snapshot() sorter.Snapshot {
	return m.ctrl.Snapshot()
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) SourceDir() string {
	return m.source
}

func (m *Model) Watching() bool {
	return m.events != nil
}

func (m *Model) CommandLine() string {
	return m.input.View()
}

func (m *Model) StatusLine() string {
	return m.status.View()
}

// Status returns the status text and whether it is an error.
func (m *Model) Status() (string, bool) {
	return m.status.Text(), m.status.IsError()
}

// Busy reports whether a command is in flight.
func (m *Model) Busy() bool {
	return m.status.Loading()
}

func (m *Model) HelpLine() string {
	return m.help.View(m.keys)
}
