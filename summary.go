package clust4go

import (
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// SummaryHeaders returns the fixed column set of the fit summary table.
func SummaryHeaders() []string {
	return []string{"Iter. #", "Converged", "Max TSS", "Min TSS", "End WSS", "End BSS", "Wall"}
}

// SummaryRow is one snapshot of the fit, recorded once per loop
// iteration plus a final row after the post-fit statistics. MaxTSS and
// MinTSS mirror the cost bookkeeping at the moment the row was taken,
// so the first row reports -Inf and +Inf. WSSSum and BSS stay NaN on
// every row but the last.
type SummaryRow struct {
	Iter      int
	Converged bool
	MaxTSS    float64
	MinTSS    float64
	WSSSum    float64
	BSS       float64
	Wall      time.Duration
}

// FitSummary is an append-only log of fit snapshots. It is diagnostic
// only; nothing in the fit loop reads it back.
type FitSummary struct {
	rows []SummaryRow
}

func (s *FitSummary) add(row SummaryRow) {
	s.rows = append(s.rows, row)
}

// Len returns the number of recorded snapshots.
func (s *FitSummary) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the recorded snapshots.
func (s *FitSummary) Rows() []SummaryRow {
	return slices.Clone(s.rows)
}

// Render writes the summary as a fixed-column table.
func (s *FitSummary) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(SummaryHeaders())

	for _, r := range s.rows {
		table.Append([]string{
			strconv.Itoa(r.Iter),
			strconv.FormatBool(r.Converged),
			formatStat(r.MaxTSS),
			formatStat(r.MinTSS),
			formatStat(r.WSSSum),
			formatStat(r.BSS),
			r.Wall.String(),
		})
	}

	table.Render()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
