// Package display formats user-facing terminal output that is not a log line.
//
// # Warning Messages
//
//	warning := display.WarnDroppedPois([]string{"Prefabs/cabin_03.xml"})
//	warning.Display(os.Stderr)
//
// # Progress
//
//	progress := display.NewProgressIndicator(os.Stdout, len(files))
//	for _, f := range files {
//	    progress.Step(f)
//	}
//	progress.Complete(valid)
//
// Colors come from github.com/fatih/color and are dropped automatically when
// stdout is not a terminal or NO_COLOR is set.
package display
