package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet/internal/domain"
)

// newTaskCommand creates the task management command tree
func (r *RootCommand) newTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks (admin only)",
	}

	var projectID int64
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			var project *int64
			if projectID > 0 {
				project = &projectID
			}
			task, err := r.api.CreateTask(ctx, r.principal(), args[0], project)
			if err != nil {
				return r.errors.Handle("create task", err)
			}
			fmt.Printf("Created task %d: %s\n", task.ID, task.Title)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&projectID, "project", 0, "Attach the task to a project")

	rmCmd := &cobra.Command{
		Use:   "rm [task id]",
		Short: "Delete a task",
		Long:  "Soft-delete a task. Existing entries keep their title snapshot and stay billable; new entries can no longer reference it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			taskID, err := parseIDArg("task id", args[0])
			if err != nil {
				return err
			}
			if err := r.api.DeleteTask(ctx, r.principal(), taskID); err != nil {
				return r.errors.Handle("delete task", err)
			}
			fmt.Printf("Deleted task %d\n", taskID)
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(rmCmd)
	return cmd
}

// newProjectCommand creates the project management command tree
func (r *RootCommand) newProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects (admin only)",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			project, err := r.api.CreateProject(ctx, r.principal(), args[0])
			if err != nil {
				return r.errors.Handle("create project", err)
			}
			fmt.Printf("Created project %d: %s\n", project.ID, project.Name)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm [project id]",
		Short: "Archive a project",
		Long:  "Archive a project. Its tasks become ineligible for new time entries.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			projectID, err := parseIDArg("project id", args[0])
			if err != nil {
				return err
			}
			if err := r.api.DeleteProject(ctx, r.principal(), projectID); err != nil {
				return r.errors.Handle("archive project", err)
			}
			fmt.Printf("Archived project %d\n", projectID)
			return nil
		},
	}

	cmd.AddCommand(addCmd)
	cmd.AddCommand(rmCmd)
	return cmd
}

// newMemberCommand creates the membership command tree
func (r *RootCommand) newMemberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project memberships (admin only)",
	}

	var (
		projectID int64
		userID    int64
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Grant a user membership of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			membership, err := r.api.AddMember(ctx, r.principal(), projectID, userID)
			if err != nil {
				return r.errors.Handle("add project member", err)
			}
			fmt.Printf("Added user %d to project %d (membership %d)\n",
				membership.UserID, membership.ProjectID, membership.ID)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	addCmd.Flags().Int64Var(&userID, "user", 0, "User id")
	_ = addCmd.MarkFlagRequired("project")
	_ = addCmd.MarkFlagRequired("user")

	cmd.AddCommand(addCmd)
	return cmd
}

// newRateCommand creates the employee profile command
func (r *RootCommand) newRateCommand() *cobra.Command {
	var (
		userID int64
		rate   int64
		code   string
		phone  string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Set an employee's billing profile (admin only)",
		Long:  "Create or replace an employee's billing profile. Rate changes are not retroactive; income is always computed with the current rate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			profile := domain.EmployeeProfile{
				UserID:          userID,
				HourlyRateToman: rate,
				EmployeeCode:    code,
				Phone:           phone,
				Role:            domain.Role(role),
			}
			if err := r.api.SetProfile(ctx, r.principal(), profile); err != nil {
				return r.errors.Handle("set employee profile", err)
			}
			fmt.Printf("Set hourly rate %d toman for user %d\n", rate, userID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id")
	cmd.Flags().Int64Var(&rate, "hourly", 0, "Hourly rate in toman")
	cmd.Flags().StringVar(&code, "code", "", "Employee code")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&role, "role", "", "Role (page_admin, content, animator, developer, team_lead)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("hourly")

	return cmd
}

// newBudgetCommand creates the project budget command
func (r *RootCommand) newBudgetCommand() *cobra.Command {
	var (
		projectID int64
		periodArg string
		amount    int64
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set a project's monthly budget (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			year, month, err := r.parsePeriodArg(periodArg)
			if err != nil {
				return err
			}
			if err := r.api.SetBudget(ctx, r.principal(), projectID, year, month, amount); err != nil {
				return r.errors.Handle("set project budget", err)
			}
			fmt.Printf("Set budget %d toman for project %d in %04d-%02d\n", amount, projectID, year, int(month))
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	cmd.Flags().StringVar(&periodArg, "period", "", "Period as YYYY-MM (defaults to the current month)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Budget amount in toman")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
