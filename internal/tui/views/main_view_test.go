package views

import (
	"testing"

	"keysort/internal/binding"
	"keysort/internal/history"
	"keysort/internal/queue"
	"keysort/internal/sorter"
	"keysort/internal/tui/common"
	"keysort/internal/tui/styles"
	"keysort/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

// Mock model for testing
type mockModel struct {
	snap        sorter.Snapshot
	mode        common.Mode
	sourceDir   string
	watching    bool
	commandLine string
	status      string
}

func (m *mockModel) Snapshot() sorter.Snapshot { return m.snap }
func (m *mockModel) Mode() common.Mode         { return m.mode }
func (m *mockModel) SourceDir() string         { return m.sourceDir }
func (m *mockModel) Watching() bool            { return m.watching }
func (m *mockModel) CommandLine() string       { return m.commandLine }
func (m *mockModel) StatusLine() string        { return m.status }
func (m *mockModel) HelpLine() string          { return "right skip" }

func TestRenderMainView(t *testing.T) {
	bindings := []binding.Binding{
		{Key: "a", Destination: "/photos/keep"},
		{Key: "bb", Destination: "/photos/trash"},
	}

	tests := []struct {
		name     string
		model    *mockModel
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name: "empty queue",
			model: &mockModel{
				snap:      sorter.Snapshot{State: sorter.Exhausted},
				sourceDir: "/photos/inbox",
			},
			contains: []string{
				"Source: /photos/inbox",
				"No images to sort",
				"No keys bound",
				"Nothing to undo",
				"right skip",
			},
			excludes: []string{
				"(watching)",
				"End of queue",
			},
		},
		{
			name: "active with bindings",
			model: &mockModel{
				snap: sorter.Snapshot{
					State:      sorter.Active,
					Current:    queue.Entry{ID: "1", SourcePath: "/photos/inbox/cat.jpg"},
					HasCurrent: true,
					Position:   1,
					Total:      3,
					Bindings:   bindings,
				},
				sourceDir: "/photos/inbox",
				watching:  true,
				status:    "Moved dog.jpg",
			},
			contains: []string{
				"(watching)",
				"2/3",
				"cat.jpg",
				"[a]",
				"[bb]",
				"/photos/keep",
				"/photos/trash",
				"Moved dog.jpg",
			},
			excludes: []string{
				"No keys bound",
				"/photos/inbox/cat.jpg",
			},
		},
		{
			name: "exhausted with skipped images",
			model: &mockModel{
				snap: sorter.Snapshot{
					State:     sorter.Exhausted,
					Position:  2,
					Total:     2,
					CanUndo:   true,
					UndoDepth: 1,
					NextUndo: history.MoveRecord{
						OriginalPath: "/photos/inbox/dog.jpg",
						FinalPath:    "/photos/keep/dog.jpg",
					},
				},
			},
			contains: []string{
				"End of queue, 2 skipped",
				"Undo (1): /photos/keep/dog.jpg -> /photos/inbox/dog.jpg",
			},
			excludes: []string{
				"Nothing to undo",
			},
		},
		{
			name: "command mode",
			model: &mockModel{
				snap:        sorter.Snapshot{State: sorter.Exhausted},
				mode:        common.Command,
				commandLine: ":bind x /photos/x",
			},
			contains: []string{":bind x /photos/x"},
		},
		{
			name: "command line hidden in normal mode",
			model: &mockModel{
				snap:        sorter.Snapshot{State: sorter.Exhausted},
				commandLine: ":stale",
			},
			excludes: []string{":stale"},
		},
	}

	theme := styles.NewTheme("default")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testutils.StripANSI(RenderMainView(tt.model, theme))

			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}
