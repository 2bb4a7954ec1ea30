package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newReportCommand creates the admin reporting command tree
func (r *RootCommand) newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Admin reports over logged time",
	}

	cmd.AddCommand(r.newDailyReportCommand())
	cmd.AddCommand(r.newWeeklyReportCommand())
	cmd.AddCommand(r.newMonthlyReportCommand())
	cmd.AddCommand(r.newPieReportCommand())
	cmd.AddCommand(r.newBreakdownReportCommand())
	cmd.AddCommand(r.newBudgetReportCommand())

	return cmd
}

// reportRange parses the shared --from/--to range flags
func (r *RootCommand) reportRange(fromArg, toArg string) (time.Time, time.Time, error) {
	from, err := r.parseDateArg(fromArg)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := r.parseDateArg(toArg)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range: --to is before --from")
	}
	return from, to, nil
}

func addRangeFlags(cmd *cobra.Command, fromArg, toArg *string, employeeID *int64) {
	cmd.Flags().StringVar(fromArg, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(toArg, "to", "", "Latest date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(employeeID, "employee", 0, "Employee id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("employee")
}

func (r *RootCommand) newDailyReportCommand() *cobra.Command {
	var (
		fromArg    string
		toArg      string
		employeeID int64
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Minutes per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			from, to, err := r.reportRange(fromArg, toArg)
			if err != nil {
				return err
			}
			totals, err := r.api.DailyTotals(ctx, r.principal(), employeeID, from, to)
			if err != nil {
				return r.errors.Handle("build daily report", err)
			}
			return printJSON(totals)
		},
	}

	addRangeFlags(cmd, &fromArg, &toArg, &employeeID)
	return cmd
}

func (r *RootCommand) newWeeklyReportCommand() *cobra.Command {
	var (
		fromArg    string
		toArg      string
		employeeID int64
	)

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Minutes per ISO week",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			from, to, err := r.reportRange(fromArg, toArg)
			if err != nil {
				return err
			}
			totals, err := r.api.WeeklyTotals(ctx, r.principal(), employeeID, from, to)
			if err != nil {
				return r.errors.Handle("build weekly report", err)
			}
			return printJSON(totals)
		},
	}

	addRangeFlags(cmd, &fromArg, &toArg, &employeeID)
	return cmd
}

func (r *RootCommand) newMonthlyReportCommand() *cobra.Command {
	var (
		fromArg    string
		toArg      string
		employeeID int64
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Minutes per calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			from, to, err := r.reportRange(fromArg, toArg)
			if err != nil {
				return err
			}
			totals, err := r.api.MonthlyTotals(ctx, r.principal(), employeeID, from, to)
			if err != nil {
				return r.errors.Handle("build monthly report", err)
			}
			return printJSON(totals)
		},
	}

	addRangeFlags(cmd, &fromArg, &toArg, &employeeID)
	return cmd
}

func (r *RootCommand) newPieReportCommand() *cobra.Command {
	var (
		employeeID int64
		periodArg  string
	)

	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Per-task share of a month's minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			year, month, err := r.parsePeriodArg(periodArg)
			if err != nil {
				return err
			}
			slices, err := r.api.MonthlyTaskPie(ctx, r.principal(), employeeID, year, month)
			if err != nil {
				return r.errors.Handle("build task pie report", err)
			}
			return printJSON(slices)
		},
	}

	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Employee id")
	cmd.Flags().StringVar(&periodArg, "period", "", "Period as YYYY-MM (defaults to the current month)")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}

func (r *RootCommand) newBreakdownReportCommand() *cobra.Command {
	var (
		fromArg    string
		toArg      string
		employeeID int64
	)

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Entries grouped by task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			from, to, err := r.reportRange(fromArg, toArg)
			if err != nil {
				return err
			}
			items, err := r.api.TaskBreakdown(ctx, r.principal(), employeeID, from, to)
			if err != nil {
				return r.errors.Handle("build task breakdown", err)
			}
			return printJSON(items)
		},
	}

	addRangeFlags(cmd, &fromArg, &toArg, &employeeID)
	return cmd
}

func (r *RootCommand) newBudgetReportCommand() *cobra.Command {
	var (
		projectID int64
		periodArg string
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Project budget versus spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			year, month, err := r.parsePeriodArg(periodArg)
			if err != nil {
				return err
			}
			status, err := r.api.ProjectBudgetStatus(ctx, r.principal(), projectID, year, month)
			if err != nil {
				return r.errors.Handle("build budget report", err)
			}
			return printJSON(status)
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	cmd.Flags().StringVar(&periodArg, "period", "", "Period as YYYY-MM (defaults to the current month)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
