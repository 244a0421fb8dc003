package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"draftflow/lib/scrapers/wikidraft"
	"draftflow/lib/serviceutil"
	"draftflow/pkg/branding"
	"draftflow/services/aggregate"
	"draftflow/services/draftpicks"
	"draftflow/services/sankey"

	"github.com/spf13/cobra"
)

var (
	runYear    *int
	runOutDir  *string
	runConfs   *string
	runRefresh *bool
)

func init() {
	runYear = runCmd.Flags().Int("year", 0, "The draft year to process.")
	runOutDir = runCmd.Flags().String("out_dir", "", "Destination directory for artifacts.")
	runConfs = runCmd.Flags().String("confs", "both", "Conference filter: bigten, sec or both.")
	runRefresh = runCmd.Flags().Bool("refresh", false, "Re-scrape even when the year is already cached.")
	runCmd.MarkFlagRequired("year")
	runCmd.MarkFlagRequired("out_dir")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run --year <year> --out_dir <dir>",
	Short: "Scrapes a draft year, writes the counts CSV and renders the sankey HTML.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		year := *runYear
		outDir := *runOutDir

		book, err := branding.Load()
		if err != nil {
			serviceutil.Fatal("failed to load branding tables", err)
		}

		database, err := draftpicks.OpenDB(filepath.Join(outDir, "data", "draftpicks.db"))
		if err != nil {
			serviceutil.Fatal("failed to open pick cache", err)
		}
		defer database.Close()

		picksService := draftpicks.NewService(database, wikidraft.NewClient(wikidraft.ClientOptions{}))
		picks, err := picksService.Picks(ctx, year, *runRefresh)
		if err != nil {
			serviceutil.Fatal("failed to retrieve draft picks", err)
		}

		filtered, err := aggregate.FilterConferences(picks, *runConfs, book)
		if err != nil {
			serviceutil.Fatal("failed to filter conferences", err)
		}
		slog.Info(
			"aggregating picks",
			"year", year,
			"scraped", len(picks),
			"in_conferences", len(filtered),
		)

		edges, err := aggregate.BuildEdges(ctx, filtered, book)
		if err != nil {
			serviceutil.Fatal("failed to aggregate picks", err)
		}

		csvPath := filepath.Join(outDir, "data", fmt.Sprintf("cfb_nfl_counts_%d.csv", year))
		if err := aggregate.WriteCSV(csvPath, edges); err != nil {
			serviceutil.Fatal("failed to write counts table", err)
		}
		slog.Info("wrote counts table", "path", csvPath, "rows", len(edges))

		doc, err := sankey.Build(ctx, edges, book, sankey.Title(year, *runConfs))
		if err != nil {
			serviceutil.Fatal("failed to build sankey diagram", err)
		}
		htmlPath := filepath.Join(outDir, fmt.Sprintf("cfb_sankey_%d.html", year))
		if err := doc.Export(ctx, htmlPath); err != nil {
			serviceutil.Fatal("failed to export sankey diagram", err)
		}
		slog.Info("wrote sankey diagram", "path", htmlPath)
	},
}
