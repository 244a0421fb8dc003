package commands

import (
	"os"
	"strings"

	"draftflow/lib/serviceutil"
	"draftflow/services/aggregate"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var previewCsv *string

func init() {
	previewCsv = previewCmd.Flags().String("csv", "", "Path to a counts CSV written by `run`.")
	previewCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview --csv <path/to/counts.csv>",
	Short: "Renders a counts table on the terminal.",
	Run: func(cmd *cobra.Command, args []string) {
		edges, err := aggregate.ReadCSV(*previewCsv)
		if err != nil {
			serviceutil.Fatal("failed to read counts table", err)
		}

		total := 0
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"College", "NFL Team", "Count", "Players"})
		for _, e := range edges {
			t.AppendRow(table.Row{
				e.College,
				e.Team,
				e.Count,
				strings.Join(e.Players, ", "),
			})
			total += e.Count
		}
		t.AppendFooter(table.Row{"", "Total", total, ""})
		t.SetStyle(table.StyleLight)
		t.Render()
	},
}
