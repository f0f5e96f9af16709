package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Step result marks shown in the status grid.
const (
	MarkPending = "-"
	MarkOK      = "g"
	MarkFailed  = "x"
	MarkSkipped = "~"
)

// Grid tracks the per-key, per-step outcome of a pipeline run.
type Grid struct {
	keys  []string
	steps []string
	marks map[string]map[string]string
}

// NewGrid seeds a grid for keys across steps. Steps before fromStep are
// marked as skipped, everything else as pending.
func NewGrid(keys []string, steps []string, fromStep int) *Grid {
	g := &Grid{
		keys:  append([]string(nil), keys...),
		steps: append([]string(nil), steps...),
		marks: make(map[string]map[string]string, len(keys)),
	}
	for _, key := range keys {
		row := make(map[string]string, len(steps))
		for i, step := range steps {
			if i+1 < fromStep {
				row[step] = MarkSkipped
			} else {
				row[step] = MarkPending
			}
		}
		g.marks[key] = row
	}
	return g
}

// Apply marks every key for step: succeeded keys get MarkOK, the rest
// MarkFailed.
func (g *Grid) Apply(step string, succeeded []string) {
	ok := make(map[string]struct{}, len(succeeded))
	for _, key := range succeeded {
		ok[key] = struct{}{}
	}
	for _, key := range g.keys {
		if _, yes := ok[key]; yes {
			g.marks[key][step] = MarkOK
		} else {
			g.marks[key][step] = MarkFailed
		}
	}
}

// Mark reports the recorded mark for one key and step.
func (g *Grid) Mark(key, step string) string {
	row, ok := g.marks[key]
	if !ok {
		return MarkPending
	}
	return row[step]
}

// Render draws the grid as a table with one row per key.
func (g *Grid) Render() string {
	if len(g.keys) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(g.steps)+1)
	header = append(header, "Key")
	for _, step := range g.steps {
		header = append(header, step)
	}
	tw.AppendHeader(header)

	for _, key := range g.keys {
		row := make(table.Row, 0, len(g.steps)+1)
		row = append(row, key)
		for _, step := range g.steps {
			row = append(row, g.marks[key][step])
		}
		tw.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(g.steps)+1)
	configs = append(configs, table.ColumnConfig{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft})
	for i := range g.steps {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// gridPrinter writes the grid after every step, rewinding the cursor over
// the previous table when the output is a terminal so the run shows one
// live-updating grid instead of a scroll of tables.
type gridPrinter struct {
	out       io.Writer
	lastLines int
}

func newGridPrinter(out io.Writer) *gridPrinter {
	if out == nil {
		out = os.Stdout
	}
	return &gridPrinter{out: out}
}

func (p *gridPrinter) Print(g *Grid) {
	rendered := g.Render()
	if rendered == "" {
		return
	}
	if p.lastLines > 0 && isTerminal(p.out) {
		fmt.Fprintf(p.out, "\x1b[%dA", p.lastLines)
	}
	fmt.Fprintln(p.out, rendered)
	p.lastLines = strings.Count(rendered, "\n") + 1
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
