package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// renderTable writes rows as a bordered table when out is a terminal, and
// as a plain tab-separated stream otherwise, so scripts piping a command's
// output still get parseable columns.
func renderTable(out io.Writer, header []string, rows [][]string) {
	if isTerminalOut(out) {
		table := tablewriter.NewWriter(out)
		table.SetHeader(header)
		table.SetBorder(false)
		table.SetAutoWrapText(false)
		table.AppendBulk(rows)
		table.Render()
		return
	}

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, joinTab(header))
	for _, row := range rows {
		fmt.Fprintln(w, joinTab(row))
	}
	_ = w.Flush()
}

func joinTab(cols []string) string {
	s := ""
	for i, c := range cols {
		if i > 0 {
			s += "\t"
		}
		s += c
	}
	return s
}

func isTerminalOut(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
