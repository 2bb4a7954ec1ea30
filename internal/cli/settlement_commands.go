package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// printJSON renders a value as indented JSON on stdout
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// newIncomeCommand creates the income statement command
func (r *RootCommand) newIncomeCommand() *cobra.Command {
	var (
		employeeID int64
		periodArg  string
	)

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Show an income statement",
		Long:  "Compute income for an employee's month: logged minutes priced at the current hourly rate, minus what has already been settled. Employees may view their own; admins may view anyone's.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			year, month, err := r.parsePeriodArg(periodArg)
			if err != nil {
				return err
			}

			target := employeeID
			if target == 0 {
				target = r.config.Actor.UserID
			}

			statement, err := r.api.ComputeIncome(ctx, r.principal(), target, year, month)
			if err != nil {
				return r.errors.Handle("compute income", err)
			}
			return printJSON(statement)
		},
	}

	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Employee id (defaults to the acting user)")
	cmd.Flags().StringVar(&periodArg, "period", "", "Period as YYYY-MM (defaults to the current month)")

	return cmd
}

// newSettleCommand creates the settlement command
func (r *RootCommand) newSettleCommand() *cobra.Command {
	var employeeID int64

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle an employee's outstanding balance",
		Long:  "Record a payment covering the employee's outstanding balance for the current month. Admin only. Settling an already-settled month writes nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			statement, settlement, err := r.api.Settle(ctx, r.principal(), employeeID)
			if err != nil {
				return r.errors.Handle("settle income", err)
			}

			if settlement == nil {
				fmt.Printf("Nothing outstanding for employee %d in %04d-%02d\n",
					statement.EmployeeID, statement.Year, statement.Month)
				return nil
			}

			fmt.Printf("Settled %d toman for employee %d in %04d-%02d (reference %s)\n",
				settlement.AmountToman, settlement.EmployeeID, settlement.Year, settlement.Month, settlement.Reference)
			return nil
		},
	}

	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Employee id to settle")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}
