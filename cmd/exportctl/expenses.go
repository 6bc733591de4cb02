package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"exporthub/internal/core"
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "List the expenses reports are built from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := globalApp.Expenses.List(cmd.Context())
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), all)
		}
		printExpensesTable(cmd.OutOrStdout(), all)
		return nil
	},
}

var (
	addDate     string
	addCategory string
)

var expensesAddCmd = &cobra.Command{
	Use:   "add <amount> <description>",
	Short: "Record an expense",
	Example: `  exportctl expenses add 12.50 "Lunch" --category Food
  exportctl expenses add 90 "Electricity" --category Bills --date 2026-02-01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cents, err := core.ParseDecimalToCents(args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], core.ErrInvalidAmount)
		}
		date := addDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		e, err := globalApp.Expenses.Add(cmd.Context(), core.Expense{
			Date:        date,
			Amount:      core.Money{Cents: cents},
			Category:    core.Category(addCategory),
			Description: args[1],
		})
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), e)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", e.Amount, e.Description, e.Category)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(expensesCmd)
	expensesCmd.AddCommand(expensesAddCmd)
	expensesAddCmd.Flags().StringVar(&addDate, "date", "", "Date as YYYY-MM-DD (default today)")
	expensesAddCmd.Flags().StringVarP(&addCategory, "category", "c", string(core.Other), "Expense category")
}
