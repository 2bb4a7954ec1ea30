package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"timesheet/internal/api"
	"timesheet/internal/clock"
	"timesheet/internal/config"
	"timesheet/internal/domain"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	api    api.API
	clock  *clock.Clock
	config *config.Config
	errors *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(apiInstance api.API, clk *clock.Clock, cfg *config.Config) *RootCommand {
	root := &RootCommand{
		api:    apiInstance,
		clock:  clk,
		config: cfg,
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "timesheet",
		Short: "Employee time tracking and project billing",
		Long: `Timesheet is a command-line backend for logging work hours against
tasks, auditing every change, and reconciling monthly income against
settlements.

EXAMPLES:
  timesheet log --date today --start 09:00 --end 10:30 --task 4 --desc "code review"
  timesheet update 12 --end 11:00
  timesheet rm 12
  timesheet list --from 2026-08-01 --to 2026-08-31
  timesheet audit 12                       # admin: full edit history
  timesheet income --employee 7 --period 2026-08
  timesheet settle --employee 7            # admin: pay out the current month
  timesheet report pie --employee 7 --period 2026-08

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

    TS_DB_DIR              Database directory (default: ~/.timesheet)
    TS_DB_FILENAME         Database filename (default: timesheet.db)
    TS_TIME_ZONE           Deployment time zone (default: Asia/Tehran)
    TS_ACTOR_ID            Acting user id
    TS_ACTOR_ADMIN         Acting user holds the admin capability
    TS_APP_TIMEOUT         Application timeout (default: 60s)
    TS_DEBUG               Enable debug output`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.getConfigFromFlags()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// Command exposes the underlying cobra command for tests
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.Int64("actor", 0, "Acting user id (overrides TS_ACTOR_ID)")
	flags.Bool("admin", false, "Act with the admin capability (overrides TS_ACTOR_ADMIN)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TS_APP_VERBOSE)")
}

// getConfigFromFlags applies flag overrides onto the loaded config
func (r *RootCommand) getConfigFromFlags() error {
	flags := r.cmd.PersistentFlags()

	if flags.Changed("actor") {
		actor, err := flags.GetInt64("actor")
		if err != nil {
			return err
		}
		r.config.Actor.UserID = actor
	}
	if flags.Changed("admin") {
		admin, err := flags.GetBool("admin")
		if err != nil {
			return err
		}
		r.config.Actor.IsAdmin = admin
	}
	if flags.Changed("verbose") {
		verbose, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		r.config.Application.Verbose = verbose
	}

	return r.config.Validate()
}

// principal builds the acting principal from configuration
func (r *RootCommand) principal() domain.Principal {
	return domain.Principal{
		UserID:  r.config.Actor.UserID,
		IsAdmin: r.config.Actor.IsAdmin,
	}
}

// commandContext creates the per-command timeout context
func (r *RootCommand) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.config.Application.Timeout)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(r.newLogCommand())
	r.cmd.AddCommand(r.newUpdateCommand())
	r.cmd.AddCommand(r.newRemoveCommand())
	r.cmd.AddCommand(r.newListCommand())
	r.cmd.AddCommand(r.newAuditCommand())
	r.cmd.AddCommand(r.newIncomeCommand())
	r.cmd.AddCommand(r.newSettleCommand())
	r.cmd.AddCommand(r.newReportCommand())
	r.cmd.AddCommand(r.newTaskCommand())
	r.cmd.AddCommand(r.newProjectCommand())
	r.cmd.AddCommand(r.newMemberCommand())
	r.cmd.AddCommand(r.newRateCommand())
	r.cmd.AddCommand(r.newBudgetCommand())
}

// parseDateArg resolves a date argument. Accepts "today", "yesterday"
// or a calendar date in YYYY-MM-DD form.
func (r *RootCommand) parseDateArg(s string) (time.Time, error) {
	today, yesterday := r.clock.TodayAndYesterday()
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return yesterday, nil
	}
	date, err := domain.ParseDate(s, r.clock.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD, today or yesterday", s)
	}
	return date, nil
}

// parsePeriodArg resolves a "YYYY-MM" period argument, defaulting to
// the current period when empty.
func (r *RootCommand) parsePeriodArg(s string) (int, time.Month, error) {
	if s == "" {
		year, month := r.clock.CurrentPeriod()
		return year, month, nil
	}
	period, err := time.ParseInLocation("2006-01", s, r.clock.Location())
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	return period.Year(), period.Month(), nil
}

// parseIDArg parses a positional integer id argument
func parseIDArg(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive integer", name, s)
	}
	return id, nil
}
