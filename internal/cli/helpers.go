package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/session"
	"github.com/faizmokh/angkat/internal/workout"
)

func newClient(store session.Store) *workout.Client {
	return workout.NewClient(store, nil)
}

// explain turns client errors into something a shell user can act on.
func explain(err error) error {
	if errors.Is(err, workout.ErrNoServerAddress) {
		return fmt.Errorf("%w (set one with `angkat server <host:port>`)", err)
	}
	return err
}

func formatRecord(r workout.Record) string {
	builder := strings.Builder{}
	builder.Grow(64 + len(r.Exercise) + len(r.Progression))

	builder.WriteString(workout.DisplayDate(r.Date))
	builder.WriteString("  ")
	builder.WriteString(r.Exercise)
	if r.Progression != "" {
		builder.WriteString(" (")
		builder.WriteString(r.Progression)
		builder.WriteString(")")
	}
	builder.WriteString(" ")
	builder.WriteString(r.Sets.String())
	builder.WriteString("x")
	builder.WriteString(r.Reps.String())

	return builder.String()
}

func printRecords(cmd *cobra.Command, records []workout.Record) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "(no workouts)")
		return
	}
	for i, r := range records {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatRecord(r))
	}
}

func printRecord(cmd *cobra.Command, r workout.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, workout.DisplayDate(r.Date))
	fmt.Fprintf(out, "  date:        %s\n", r.Date)
	fmt.Fprintf(out, "  exercise:    %s\n", r.Exercise)
	fmt.Fprintf(out, "  progression: %s\n", r.Progression)
	fmt.Fprintf(out, "  sets:        %s\n", r.Sets)
	fmt.Fprintf(out, "  reps:        %s\n", r.Reps)
	fmt.Fprintf(out, "  weight:      %s\n", r.Weight)
	fmt.Fprintf(out, "  difficulty:  %s\n", r.Difficulty)
	fmt.Fprintf(out, "  notes:       %s\n", r.Notes)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type exercises []workout.Record

func (e exercises) String(i int) string { return e[i].Exercise }

func (e exercises) Len() int { return len(e) }

// matchRecords keeps the records whose exercise fuzzy-matches term, best
// match first. An empty term keeps the list as fetched.
func matchRecords(records []workout.Record, term string) []workout.Record {
	term = strings.TrimSpace(term)
	if term == "" {
		return records
	}
	matches := fuzzy.FindFrom(term, exercises(records))
	out := make([]workout.Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}
