package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func convertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount between currencies at today's rates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			conversion, err := a.conversion.Convert(cmd.Context(), amount,
				strings.ToUpper(args[1]), strings.ToUpper(args[2]))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (%s)\n",
				strconv.FormatFloat(conversion.Amount, 'f', -1, 64), conversion.From,
				strconv.FormatFloat(conversion.ConvertedAmount, 'f', 4, 64), conversion.To,
				conversion.Date)
			return nil
		},
	}
}
