package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

func newSimulateCommand(now func() time.Time, newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		amount    string
		birthDate string
		term      int
		schedule  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a single loan",
		Example: `  simulatorctl simulate --amount 10000.00 --birth-date 1990-05-15 --term 12
  simulatorctl simulate --amount 50000 --birth-date 1980-01-10 --term 24 --schedule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loanAmount, err := fixedpoint.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			birth, err := dto.ParseDate(birthDate)
			if err != nil {
				return fmt.Errorf("--birth-date: %w", err)
			}

			rt := newSession(1, now, newLogger(cmd))
			defer rt.Close()

			resp, err := rt.simulate.Execute(cmd.Context(), dto.SimulationRequest{
				LoanAmount:      &loanAmount,
				BirthDate:       &birth,
				LoanTermMonths:  &term,
				IncludeSchedule: schedule,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "loan amount, e.g. 10000.00")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "client birth date (yyyy-MM-dd)")
	cmd.Flags().IntVar(&term, "term", 0, "loan term in months")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "include the amortization schedule")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("birth-date")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}
