package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/session"
	"github.com/faizmokh/angkat/internal/workout"
)

func newAddCommand(ctx context.Context, store session.Store) *cobra.Command {
	var form workout.Form

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a workout stamped with the current time.",
		Long: "add sends one workout to the server. Counts are parsed leniently: " +
			"anything that is not a number is sent as null.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record := form.Record(time.Now())
			if err := newClient(store).Create(ctx, record); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", formatRecord(record))
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Exercise, "exercise", "", "Exercise name")
	cmd.Flags().StringVar(&form.Progression, "progression", "", "Progression or variation")
	cmd.Flags().StringVar(&form.Sets, "sets", "", "Number of sets")
	cmd.Flags().StringVar(&form.Reps, "reps", "", "Reps per set")
	cmd.Flags().StringVar(&form.Weight, "weight", "", "Weight used")
	cmd.Flags().StringVar(&form.Difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().StringVar(&form.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("sets")

	return cmd
}

func newListCommand(ctx context.Context, store session.Store) *cobra.Command {
	var (
		matchFlag string
		jsonFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := newClient(store).List(ctx)
			if err != nil {
				return explain(err)
			}
			records = matchRecords(records, matchFlag)

			if jsonFlag {
				if records == nil {
					records = []workout.Record{}
				}
				return printJSON(cmd, records)
			}
			printRecords(cmd, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&matchFlag, "match", "", "Fuzzy filter on exercise name")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print records as JSON")

	return cmd
}

func newShowCommand(ctx context.Context, store session.Store) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <date>",
		Short: "Show one workout by its date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := newClient(store).Get(ctx, dateArg(args[0]))
			if err != nil {
				return explain(err)
			}
			if jsonFlag {
				return printJSON(cmd, record)
			}
			printRecord(cmd, record)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the record as JSON")

	return cmd
}

func newDeleteCommand(ctx context.Context, store session.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <date>",
		Short: "Remove a workout by its date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := dateArg(args[0])
			if err := newClient(store).Delete(ctx, date); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %s\n", date)
			return nil
		},
	}

	return cmd
}

// dateArg accepts any RFC 3339 spelling of a workout date and falls back to
// the raw value so the server decides what it means.
func dateArg(value string) string {
	if normalized, err := workout.NormalizeTimestamp(value); err == nil {
		return normalized
	}
	return value
}
