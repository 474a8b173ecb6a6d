package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/tracker"
)

func newReplayCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "replay OUTCOMES...",
		Short: "Analyse a sequence of outcomes offline",
		Long: `Feed outcomes through a fresh tracker and print the final analysis and
grid. Outcomes are codes or names: "CCVVE" or "red red blue blue tie".`,
		Example: "  streakwatch replay CCVVE\n  streakwatch replay red red blue --json",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := parseSequence(args)
			if err != nil {
				return err
			}

			tr := tracker.New()
			for _, o := range outcomes {
				if _, err := tr.Append(o); err != nil {
					return err
				}
			}

			view := tr.View("replay")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return printView(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session view as JSON")
	return cmd
}

// parseSequence accepts outcome names or codes. A token made only of code
// letters ("CCVVE") expands to one outcome per letter.
func parseSequence(args []string) ([]domain.Outcome, error) {
	var out []domain.Outcome
	for _, arg := range args {
		if len(arg) > 1 && isCodeRun(arg) {
			for _, r := range arg {
				o, err := domain.ParseOutcome(string(r))
				if err != nil {
					return nil, err
				}
				out = append(out, o)
			}
			continue
		}
		o, err := domain.ParseOutcome(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func isCodeRun(s string) bool {
	for _, r := range strings.ToUpper(s) {
		if r != 'C' && r != 'V' && r != 'E' {
			return false
		}
	}
	return true
}

func printView(w io.Writer, view domain.SessionView) error {
	s := view.Snapshot

	codes := make([]string, len(view.History))
	for i, rec := range view.History {
		codes[i] = rec.Outcome.Code()
	}
	prediction := "Waiting..."
	if s.HasPrediction() {
		prediction = fmt.Sprintf("%s (%d%%)", s.Prediction.Label(), s.Confidence)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "history:        %s (%d)\n", strings.Join(codes, " "), len(codes))
	fmt.Fprintf(&b, "risk:           %s\n", s.Risk)
	fmt.Fprintf(&b, "manipulation:   %s\n", s.Manipulation)
	fmt.Fprintf(&b, "prediction:     %s\n", prediction)
	fmt.Fprintf(&b, "recommendation: %s\n", s.Recommendation)
	b.WriteString("patterns:\n")
	if len(s.Patterns) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, p := range s.Patterns {
		fmt.Fprintf(&b, "  - %s\n", p.Description)
	}
	b.WriteString("grid:\n")
	for _, row := range view.Grid {
		cells := make([]string, len(row))
		for i, rec := range row {
			cells[i] = rec.Outcome.Code()
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(cells, " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
