package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grumpygabe/TeragonPOIParser/internal/config"
	"github.com/grumpygabe/TeragonPOIParser/internal/history"
	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

// shortIDLen is how much of a run id the listing shows; GetRun accepts it
// back as a prefix
const shortIDLen = 8

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs or show one run in detail",
		Long: `Show the runs recorded in the history database
($POIPARSER_HOME/history.db unless history.db_path is configured).

Examples:
  poiparser history              # ten most recent runs
  poiparser history --limit 0    # every run
  poiparser history --runs 3f2a  # one run, by id or unique id prefix`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .poiparser/config.yaml)")
	cmd.Flags().Int("limit", 10, "Number of runs to list (0 = all)")
	cmd.Flags().String("runs", "", "Show per-directory counts of the run with this id or id prefix")

	return cmd
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dbPath, err := config.GetHistoryDBPath(cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve history database: %w", err)
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	runID, _ := cmd.Flags().GetString("runs")
	if runID != "" {
		run, err := store.GetRun(cmd.Context(), runID)
		if err != nil {
			return err
		}
		printRun(out, run)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", limit)
	}
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	printRunList(out, runs)
	return nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func printRunList(out io.Writer, runs []*models.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return
	}

	idColor := color.New(color.FgCyan)
	warnColor := color.New(color.FgYellow)

	fmt.Fprintf(out, "Recent runs:\n")
	for _, run := range runs {
		dropped := fmt.Sprintf("%d dropped", run.Stats.Dropped+run.Stats.ParseErrors)
		if run.Stats.Dropped+run.Stats.ParseErrors > 0 {
			dropped = warnColor.Sprint(dropped)
		}
		fmt.Fprintf(out, "  %s  %s  %d POIs (city %d, wilderness %d, rwg %d)  %s  %s\n",
			idColor.Sprint(shortID(run.ID)),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Stats.TotalPois(), run.Stats.City, run.Stats.Wilderness, run.Stats.RwgTiles,
			dropped, run.RootPath)
	}
}

func printRun(out io.Writer, run *models.RunRecord) {
	st := run.Stats

	fmt.Fprintf(out, "Run %s\n", color.New(color.FgCyan).Sprint(run.ID))
	fmt.Fprintf(out, "  Root: %s\n", run.RootPath)
	fmt.Fprintf(out, "  Output: %s\n", run.OutputFile)
	fmt.Fprintf(out, "  Started: %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Duration: %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  POIs: %d (city %d, wilderness %d, rwg %d)\n", st.TotalPois(), st.City, st.Wilderness, st.RwgTiles)
	fmt.Fprintf(out, "  Directories: %d visited, %d skipped\n", st.DirectoriesVisited, st.DirectoriesSkipped)
	fmt.Fprintf(out, "  Files: %d skipped, %d not POIs, %d dropped, %d unparsable\n",
		st.FilesSkipped, st.NotPois, st.Dropped, st.ParseErrors)

	if len(run.Sections) > 0 {
		fmt.Fprintf(out, "\nSections:\n")
		for _, s := range run.Sections {
			fmt.Fprintf(out, "  %s: %d (city %d, wilderness %d, rwg %d)\n",
				s.DisplayPath, s.City+s.Wilderness+s.RwgTiles, s.City, s.Wilderness, s.RwgTiles)
		}
	}

	if len(run.Dropped) > 0 {
		fmt.Fprintf(out, "\nDropped:\n")
		for _, d := range run.Dropped {
			fmt.Fprintf(out, "  %s: %s\n", d.Path, d.Reason)
		}
	}
}
