package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/damon-houk/nbk-rate-viewer/internal/application/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
)

func rateCommand(a *app) *cobra.Command {
	var date string
	var period int

	rateCmd := &cobra.Command{
		Use:   "rate CODE",
		Short: "Print the KZT rate of a currency on a date or over recent days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			if !entity.IsCurrencyCode(code) {
				return fmt.Errorf("invalid currency code %q", args[0])
			}

			if date != "" {
				parsed, err := entity.ParseFeedDate(date)
				if err != nil {
					return fmt.Errorf("date must be in dd.MM.yyyy format: %w", err)
				}
				date = entity.FormatFeedDate(parsed)
			}

			if period < 1 || period > a.cfg.Feed.MaxPeriod {
				return fmt.Errorf("period must be between 1 and %d, got %d", a.cfg.Feed.MaxPeriod, period)
			}

			series, err := a.rates.CurrencySeries(cmd.Context(), code, date, period)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "DATE\t%s\n", series.Currency)
			for i, d := range series.Dates {
				fmt.Fprintf(w, "%s\t%.2f\n", d, series.Rates[i])
			}
			return w.Flush()
		},
	}

	rateCmd.Flags().StringVar(&date, "date", "", "Single date in dd.MM.yyyy format")
	rateCmd.Flags().IntVar(&period, "period", service.DefaultPeriod, "Number of days up to today")

	return rateCmd
}

func overviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the last week of rates for every tracked currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := a.rates.Overview(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "CURRENCY\t%s\tCHANGE\t\n", strings.Join(overview.Dates, "\t"))

			for _, code := range overview.Currencies {
				rates := overview.Rates[code]
				cells := make([]string, len(rates))
				// Rates are most recent first, dates oldest first
				for i, rate := range rates {
					cells[len(rates)-1-i] = fmt.Sprintf("%.2f", rate)
				}
				fmt.Fprintf(w, "%s\t%s\t%+.2f\t\n", code, strings.Join(cells, "\t"), overview.WeekChanges[code])
			}

			return w.Flush()
		},
	}
}
