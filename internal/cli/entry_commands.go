package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet/internal/domain"
	"timesheet/internal/services"
)

// newLogCommand creates the entry creation command
func (r *RootCommand) newLogCommand() *cobra.Command {
	var (
		dateArg     string
		startArg    string
		endArg      string
		taskID      int64
		description string
		sourceArg   string
		employeeID  int64
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a time entry",
		Long:  "Log a worked interval for a date. Non-admins may only log for today or yesterday, and intervals on the same day must not overlap.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			date, err := r.parseDateArg(dateArg)
			if err != nil {
				return err
			}
			start, err := domain.ParseClock(startArg)
			if err != nil {
				return fmt.Errorf("invalid --start %q: expected HH:MM", startArg)
			}
			end, err := domain.ParseClock(endArg)
			if err != nil {
				return fmt.Errorf("invalid --end %q: expected HH:MM", endArg)
			}

			params := services.CreateEntryParams{
				Date:         date,
				StartMinutes: start,
				EndMinutes:   end,
				Description:  description,
				Source:       domain.EntrySource(sourceArg),
			}
			if taskID > 0 {
				params.TaskID = &taskID
			}
			if employeeID > 0 {
				params.EmployeeID = &employeeID
			}

			entry, err := r.api.CreateEntry(ctx, r.principal(), params)
			if err != nil {
				return r.errors.Handle("log time entry", err)
			}

			fmt.Printf("Logged entry %d: %s\n", entry.ID, formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "today", "Entry date (YYYY-MM-DD, today or yesterday)")
	cmd.Flags().StringVar(&startArg, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&endArg, "end", "", "End time (HH:MM)")
	cmd.Flags().Int64Var(&taskID, "task", 0, "Task id to log against")
	cmd.Flags().StringVar(&description, "desc", "", "Short description (max 300 characters)")
	cmd.Flags().StringVar(&sourceArg, "source", "", "Entry source: MANUAL or TIMER (default MANUAL)")
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Log on behalf of another employee (admin only)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// newUpdateCommand creates the entry update command
func (r *RootCommand) newUpdateCommand() *cobra.Command {
	var (
		dateArg     string
		startArg    string
		endArg      string
		taskID      int64
		description string
	)

	cmd := &cobra.Command{
		Use:   "update [entry id]",
		Short: "Update a time entry",
		Long:  "Change fields of an existing entry. Every update appends one record to the entry's audit trail.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entryID, err := parseIDArg("entry id", args[0])
			if err != nil {
				return err
			}

			var params services.UpdateEntryParams
			if cmd.Flags().Changed("date") {
				date, err := r.parseDateArg(dateArg)
				if err != nil {
					return err
				}
				params.Date = &date
			}
			if cmd.Flags().Changed("start") {
				start, err := domain.ParseClock(startArg)
				if err != nil {
					return fmt.Errorf("invalid --start %q: expected HH:MM", startArg)
				}
				params.StartMinutes = &start
			}
			if cmd.Flags().Changed("end") {
				end, err := domain.ParseClock(endArg)
				if err != nil {
					return fmt.Errorf("invalid --end %q: expected HH:MM", endArg)
				}
				params.EndMinutes = &end
			}
			if cmd.Flags().Changed("task") {
				params.TaskID = &taskID
			}
			if cmd.Flags().Changed("desc") {
				params.Description = &description
			}

			entry, err := r.api.UpdateEntry(ctx, r.principal(), entryID, params)
			if err != nil {
				return r.errors.Handle("update time entry", err)
			}

			fmt.Printf("Updated entry %d: %s\n", entry.ID, formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "New date (YYYY-MM-DD, today or yesterday)")
	cmd.Flags().StringVar(&startArg, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&endArg, "end", "", "New end time (HH:MM)")
	cmd.Flags().Int64Var(&taskID, "task", 0, "New task id")
	cmd.Flags().StringVar(&description, "desc", "", "New short description")

	return cmd
}

// newRemoveCommand creates the soft-delete command
func (r *RootCommand) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [entry id]",
		Short: "Delete a time entry",
		Long:  "Soft-delete an entry. The row stays in storage for audit and admin queries but leaves the owner's lists and totals.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entryID, err := parseIDArg("entry id", args[0])
			if err != nil {
				return err
			}

			if err := r.api.DeleteEntry(ctx, r.principal(), entryID); err != nil {
				return r.errors.Handle("delete time entry", err)
			}

			fmt.Printf("Deleted entry %d\n", entryID)
			return nil
		},
	}
}

// newListCommand creates the entry listing command
func (r *RootCommand) newListCommand() *cobra.Command {
	var (
		fromArg        string
		toArg          string
		taskID         int64
		employeeID     int64
		includeDeleted bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		Long:  "List entries, newest first. Non-admins see only their own live entries created after their most recent settlement.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			var filter domain.EntryFilter
			if fromArg != "" {
				from, err := r.parseDateArg(fromArg)
				if err != nil {
					return err
				}
				filter.DateFrom = &from
			}
			if toArg != "" {
				to, err := r.parseDateArg(toArg)
				if err != nil {
					return err
				}
				filter.DateTo = &to
			}
			if taskID > 0 {
				filter.TaskID = &taskID
			}
			if employeeID > 0 {
				filter.EmployeeID = &employeeID
			}
			filter.IncludeDeleted = includeDeleted

			entries, err := r.api.ListEntries(ctx, r.principal(), filter)
			if err != nil {
				return r.errors.Handle("list time entries", err)
			}

			if len(entries) == 0 {
				fmt.Println("No entries found")
				return nil
			}
			for _, entry := range entries {
				fmt.Printf("%6d  %s\n", entry.ID, formatEntry(entry))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromArg, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toArg, "to", "", "Latest date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&taskID, "task", 0, "Filter by task id")
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Filter by employee (admin only)")
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include soft-deleted entries (admin only)")

	return cmd
}

// newAuditCommand creates the audit trail command
func (r *RootCommand) newAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [entry id]",
		Short: "Show an entry's edit history",
		Long:  "Print the append-only audit trail of an entry, newest first. Admin only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entryID, err := parseIDArg("entry id", args[0])
			if err != nil {
				return err
			}

			edits, err := r.api.ListAudit(ctx, r.principal(), entryID)
			if err != nil {
				return r.errors.Handle("list audit trail", err)
			}

			if len(edits) == 0 {
				fmt.Printf("No edits recorded for entry %d\n", entryID)
				return nil
			}
			return printJSON(edits)
		},
	}
}

// formatEntry renders a one-line summary of a time entry
func formatEntry(entry *domain.TimeEntry) string {
	task := "-"
	if entry.TaskTitleSnapshot != "" {
		task = entry.TaskTitleSnapshot
	}
	line := fmt.Sprintf("%s %s-%s (%dm) [%s] %s",
		domain.FormatDate(entry.Date),
		domain.FormatClock(entry.StartMinutes),
		domain.FormatClock(entry.EndMinutes),
		entry.DurationMinutes,
		task,
		entry.ShortDescription,
	)
	if entry.IsDeleted {
		line += " (deleted)"
	}
	return line
}
