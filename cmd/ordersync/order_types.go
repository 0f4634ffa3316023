package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oip/ordersync/internal/domains"
	"oip/ordersync/internal/domains/common/order"
)

func newOrderTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order-types",
		Short: "列出工单类型及实现状态",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tTITLE\tIMPLEMENTED")
			for _, t := range order.All() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", int(t), t.String(), t.Title(), domains.Implemented(t))
			}
			return w.Flush()
		},
	}
}
