package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grumpygabe/TeragonPOIParser/internal/classifier"
	"github.com/grumpygabe/TeragonPOIParser/internal/display"
	"github.com/grumpygabe/TeragonPOIParser/internal/models"
	"github.com/grumpygabe/TeragonPOIParser/internal/parser"
)

// NewInspectCommand creates and returns the inspect subcommand
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <prefab.xml>...",
		Short: "Show how individual prefab files would appear in the POI list",
		Long: `Extract and classify one or more prefab XML files and print the line
each would contribute to the POI list, or the reason it would be left out.

Skip patterns are not applied; every named file is inspected.

Exit code: 0 if every file is a valid POI, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectFiles(args, cmd.OutOrStdout())
		},
	}

	return cmd
}

// inspectFiles prints one result block per file and fails if any file would
// not make it into the POI list
func inspectFiles(paths []string, out io.Writer) error {
	progress := display.NewProgressIndicator(out, len(paths))
	ok := color.New(color.FgGreen).Sprint("✓")
	bad := color.New(color.FgRed).Sprint("✗")

	valid := 0
	for _, path := range paths {
		progress.Step(path)

		poi, err := inspectFile(path)
		if err != nil {
			fmt.Fprintf(out, "  %s %s\n", bad, describeSkip(err))
			continue
		}

		valid++
		fmt.Fprintf(out, "  %s %s\n", ok, poi.Category)
		fmt.Fprintf(out, "    %s\n", classifier.Line(poi))
	}

	progress.Complete(valid)

	if invalid := len(paths) - valid; invalid > 0 {
		return fmt.Errorf("%d of %d files are not valid POIs", invalid, len(paths))
	}
	return nil
}

func inspectFile(path string) (*models.ClassifiedPoi, error) {
	rec, err := parser.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return classifier.Classify(rec)
}

// describeSkip turns an extraction or classification error into the reason
// shown to the user
func describeSkip(err error) string {
	var missing *parser.MissingFieldError
	var invalid *classifier.InvalidSizeError
	var parseErr *parser.ParseError

	switch {
	case errors.Is(err, parser.ErrNotAPoi):
		return "not a POI: root element is not <prefab>"
	case errors.As(err, &missing):
		return fmt.Sprintf("dropped: %s", missing)
	case errors.As(err, &invalid):
		return fmt.Sprintf("dropped: %s", invalid)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("unparsable: %v", parseErr.Err)
	default:
		return err.Error()
	}
}
