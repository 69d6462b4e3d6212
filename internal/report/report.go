// Package report renders a console summary of a finished run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"cosponsor_spider/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary is what a run hands to the report.
type Summary struct {
	Chamber     models.Chamber
	Session     int
	Bills       int
	Failed      []int
	Politicians []*models.Politician
}

// Top returns the k politicians involved in the most bills, most first.
// Ties keep the name order of the input. k <= 0 returns all of them.
func Top(politicians []*models.Politician, k int) []*models.Politician {
	out := make([]*models.Politician, len(politicians))
	copy(out, politicians)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBills > out[j].TotalBills
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return t
}

// Render writes the top k politicians followed by the run totals.
func Render(w io.Writer, s Summary, k int) {
	fmt.Fprintf(w, "\n%s %s, %d bills\n", models.Ordinal(s.Session), s.Chamber, s.Bills)

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Name", "State", "Party", "Bills", "Solo"})
	for _, p := range Top(s.Politicians, k) {
		t.AppendRow(table.Row{p.Index, p.Name(), p.State, p.Party, p.TotalBills, p.SoloBills})
	}
	t.AppendFooter(table.Row{"", "Total", "", "", len(s.Politicians), ""})
	t.Render()

	if len(s.Failed) > 0 {
		nums := make([]string, 0, len(s.Failed))
		for _, n := range s.Failed {
			nums = append(nums, fmt.Sprint(n))
		}
		fmt.Fprintf(w, "skipped bills: %s\n", strings.Join(nums, ", "))
	}
}
