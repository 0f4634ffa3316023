package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"oip/ordersync/internal/business/incident"
	"oip/ordersync/pkg/infra/rdb"
	"oip/ordersync/pkg/logger"
	"oip/ordersync/pkg/retry"
)

type assembleOptions struct {
	*rootOptions
	Account    string
	IncidentID int64
}

// newAssembleCommand 只组装事件文档并打印，不提交也不回写工单
func newAssembleCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &assembleOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "组装事件文档并输出 JSON（试运行）",
		Long: `按账号查询客户库，组装事件文档并输出到 stdout。

Example:
  ordersync assemble --account 0011 --incident 77`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}

			dial, err := rdb.NewDialer(cfg.Relational.Driver, cfg.Relational.DSN)
			if err != nil {
				return err
			}
			policy := retry.NoRetry()
			policy.AttemptTimeout = cfg.Relational.QueryTimeout

			a := incident.NewAssembler(rdb.NewRowSource(dial, policy), logger.NewNop())
			doc, err := a.Assemble(context.Background(), opts.Account, opts.IncidentID)
			if err != nil {
				return fmt.Errorf("assemble failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}

	cmd.Flags().StringVar(&opts.Account, "account", "", "账号 (required)")
	cmd.Flags().Int64Var(&opts.IncidentID, "incident", 0, "事件 ID (required)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("incident")

	return cmd
}
