package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/csv-sales-watcher/internal/store"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// WriteText renders tables as aligned plain-text columns.
func WriteText(w io.Writer, tables ...Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\n", t.Title)
		fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
		if len(t.Rows) == 0 {
			fmt.Fprintln(tw, "(no data)")
			continue
		}
		for _, r := range t.Rows {
			fmt.Fprintf(tw, "%s\t%s\n", r.Day, strings.Join(r.Values, "\t"))
		}
	}
	return tw.Flush()
}

// Dump prints every date of the snapshot followed by its records, both in
// ascending order.
func Dump(w io.Writer, snapshot map[civil.Date]types.SalesDay) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range store.SortedDates(snapshot) {
		day := snapshot[d]
		fmt.Fprintf(tw, "%s\t(%d entries)\n", d, day.Len())
		for _, t := range day.Times() {
			hs := day.Data[t]
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				types.FormatTimeOfDay(t), FormatAmount(hs.Amount()), hs.Product(), hs.Region())
		}
	}
	return tw.Flush()
}
