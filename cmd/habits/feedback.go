package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/Veraticus/habit-tasks/internal/widget"
	"github.com/spf13/cobra"
)

func feedbackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate a suggestion",
		Long: `Record 👍 or 👎 for a suggested task so future suggestions for similar
habits move toward or away from it.`,
		Example: `  habits feedback --habits "sleep earlier" --task "Dim the lights an hour before sleep" --rating up`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFeedback(cmd)
		},
	}

	cmd.Flags().String("habits", "", "the habits the suggestion was made for")
	cmd.Flags().String("task", "", "the suggested task being rated")
	cmd.Flags().String("rating", "", "up or down")
	cmd.Flags().Bool("remote", false, "send to the running suggestion service")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("rating")

	cmd.AddCommand(feedbackListCmd(a))

	return cmd
}

func (a *app) runFeedback(cmd *cobra.Command) error {
	ctx := cmd.Context()
	habits, _ := cmd.Flags().GetString("habits")
	task, _ := cmd.Flags().GetString("task")
	ratingFlag, _ := cmd.Flags().GetString("rating")
	remote, _ := cmd.Flags().GetBool("remote")

	rating, err := parseRating(ratingFlag)
	if err != nil {
		return err
	}
	habits = model.NormalizeHabits(habits)

	var ok bool
	if remote {
		ok, err = a.newClient().Feedback(ctx, model.FeedbackEvent{Habits: habits, Task: task, Rating: rating})
	} else {
		ok, err = a.recordLocal(ctx, habits, task, rating)
	}
	if errors.Is(err, common.ErrEmptyTask) {
		return common.NewUserError("task cannot be empty", err)
	}
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(widget.FeedbackMessage(rating)))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Feedback was not accepted."))
	}
	return nil
}

func (a *app) recordLocal(ctx context.Context, habits, task string, rating model.Rating) (bool, error) {
	engine, store, err := a.openEngine(ctx)
	if err != nil {
		return false, err
	}
	defer closeStore(store)

	return engine.RecordFeedback(ctx, habits, task, rating)
}

func feedbackListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent feedback",
		Long:  `Show the most recent ratings, newest first. Requires the sqlite storage driver.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFeedbackList(cmd)
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of entries")

	return cmd
}

func (a *app) runFeedbackList(cmd *cobra.Command) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	_, store, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	lister, ok := store.(suggester.FeedbackLister)
	if !ok {
		return common.NewUserError("feedback history requires the sqlite storage driver", common.ErrInvalidConfig)
	}

	records, err := lister.RecentFeedback(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No feedback recorded yet."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Recent feedback"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("When"),
		cli.TableHeaderStyle.Render("Rating"),
		cli.TableHeaderStyle.Render("Task"),
		cli.TableHeaderStyle.Render("Habits"))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			cli.FormatRating(int(r.Rating)),
			r.Task,
			cli.SubtleStyle.Render(r.Habits))
	}
	return nil
}
