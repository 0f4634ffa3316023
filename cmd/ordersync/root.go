package main

import (
	"github.com/spf13/cobra"
)

// rootOptions 全局参数
type rootOptions struct {
	ConfigPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ordersync",
		Short:         "ordersync - 工单立案同步",
		Long:          "轮询 Open 工单，组装事件文档提交到工单创建服务，并回写 Completed 状态。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "./config/ordersync.yaml", "配置文件路径")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newAssembleCommand(opts))
	cmd.AddCommand(newOrderTypesCommand())

	return cmd
}
