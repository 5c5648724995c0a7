package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todocal/internal/ical"
	"todocal/internal/logging"
	"todocal/internal/recurrence"
	"todocal/internal/task"
)

// cliEnv boots a non-interactive command, logging to stderr.
func cliEnv(cmd *cobra.Command, g *globals) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	return bootstrap(g, cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel))
}

func newListCmd(g *globals) *cobra.Command {
	var (
		view      string
		date      string
		allStates bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			f := task.Filter{View: e.cfg.View()}
			if cmd.Flags().Changed("view") {
				if f.View, err = task.ParseView(view); err != nil {
					return err
				}
			}
			if date != "" {
				if f.Date, err = recurrence.ParseDate(date); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			st, err := e.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			today := e.today()
			out := cmd.OutOrStdout()
			shown := 0
			for _, t := range st.Visible(f, today) {
				done := st.IsCompleted(t.ID)
				if done && !allStates {
					continue
				}
				fmt.Fprintln(out, formatLine(t, done, today))
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "No tasks.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "all, today, this_week or overdue")
	cmd.Flags().StringVar(&date, "date", "", "only tasks due on this YYYY-MM-DD")
	cmd.Flags().BoolVar(&allStates, "all-states", false, "include completed tasks")
	return cmd
}

func formatLine(t task.Task, done bool, today recurrence.Date) string {
	box := "[ ]"
	if done {
		box = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %s %s", shortID(t.ID), box, t.Title)
	if t.DueDate != "" {
		b.WriteString("  due " + t.DueDate)
		if !done && task.Deadline(t, today) == task.HintOverdue {
			b.WriteString(" (overdue)")
		}
	}
	if t.Recurring() {
		b.WriteString("  " + t.Recurrence.String())
		if t.EndDate != "" {
			b.WriteString(" until " + t.EndDate)
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newAddCmd(g *globals) *cobra.Command {
	var (
		desc      string
		due       string
		freq      string
		interval  int
		weekdays  string
		monthDays string
	)
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Long: `Add a task. With --freq the task repeats from today and --due is
read as the end date; without it --due is the single due date.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := task.Draft{Title: strings.Join(args, " "), Desc: desc, Date: due}
			f, err := recurrence.ParseFrequency(freq)
			if err != nil {
				return err
			}
			if f != "" {
				rule := recurrence.Rule{Freq: f, Interval: interval}
				if rule.WeeklyDays, err = recurrence.ParseWeekdays(weekdays); err != nil {
					return err
				}
				if rule.MonthlyDays, err = recurrence.ParseMonthDays(monthDays); err != nil {
					return err
				}
				d.Rule = &rule
			}

			e, err := cliEnv(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			var added task.Task
			err = e.mutate(cmd.Context(), func(st *task.State) (err error) {
				added, err = st.Add(d, e.now())
				return err
			})
			if err != nil {
				return err
			}
			e.logger.Info("task added", "id", added.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(added.ID), added.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&due, "due", "", "due date, or end date for a repeating task (YYYY-MM-DD)")
	cmd.Flags().StringVar(&freq, "freq", "", "daily, weekly or monthly")
	cmd.Flags().IntVar(&interval, "interval", 1, "repeat every N days, weeks or months")
	cmd.Flags().StringVar(&weekdays, "weekdays", "", "weekly days, e.g. mon,thu")
	cmd.Flags().StringVar(&monthDays, "monthdays", "", "monthly days, e.g. 1,15")
	return cmd
}

func newDoneCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task; repeating tasks move to their next occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			var (
				target task.Task
				out    task.Outcome
			)
			err = e.mutate(cmd.Context(), func(st *task.State) (err error) {
				if target, err = st.Resolve(args[0]); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				out, err = st.Toggle(target.ID, e.today())
				if err != nil {
					return err
				}
				target, _ = st.Get(target.ID)
				return nil
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out == task.RolledOver {
				fmt.Fprintf(w, "%s: next occurrence %s\n", target.Title, target.DueDate)
			} else {
				fmt.Fprintf(w, "%s: %s\n", target.Title, out)
			}
			return nil
		},
	}
}

func newClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			var n int
			err = e.mutate(cmd.Context(), func(st *task.State) error {
				n = st.ClearCompleted()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
			return nil
		},
	}
}

func newExportCmd(g *globals) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a task as an iCalendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()
			return export(cmd.Context(), e, args[0], output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func export(ctx context.Context, e *env, ref, output string, stdout io.Writer) error {
	st, err := e.repo.Load(ctx)
	if err != nil {
		return err
	}
	t, err := st.Resolve(ref)
	if err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	ics, err := ical.Event(t, e.now())
	if err != nil {
		return fmt.Errorf("%s: %w", t.Title, err)
	}
	if output == "" {
		_, err = io.WriteString(stdout, ics)
		return err
	}
	if err := os.WriteFile(output, []byte(ics), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	e.logger.Info("exported task", "id", t.ID, "path", output)
	return nil
}
