package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stagehand/internal/report"
)

// sortKeysNatural orders keys the way operators read them, with embedded
// numbers compared numerically (kitchen_2 before kitchen_10).
func sortKeysNatural(keys []string) {
	coll := collate.New(language.English, collate.Numeric)
	sort.SliceStable(keys, func(i, j int) bool {
		return coll.CompareString(keys[i], keys[j]) < 0
	})
}

// finishReport prints the batch summary, persists the succeeded keys when
// requested, and converts per-key errors into a command failure.
func finishReport(cmd *cobra.Command, rep *report.Report, outputJSON string) error {
	fmt.Fprint(cmd.OutOrStdout(), rep.Summary())
	if err := rep.WriteSucceeded(outputJSON); err != nil {
		return err
	}
	if rep.Failed() {
		return fmt.Errorf("%s: %d keys failed", rep.Operation, len(rep.Errors))
	}
	return nil
}

// printKeySection prints a titled key list, skipping empty sections.
func printKeySection(out io.Writer, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	sorted := append([]string(nil), keys...)
	sortKeysNatural(sorted)
	fmt.Fprintf(out, "%s (%d):\n", title, len(sorted))
	for _, key := range sorted {
		fmt.Fprintf(out, "  - %s\n", key)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
