package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"oip/ordersync/internal/domains"
	"oip/ordersync/internal/domains/common/order"
	"oip/ordersync/internal/worker"
	"oip/ordersync/pkg/config"
	"oip/ordersync/pkg/logger"
)

type runOptions struct {
	*rootOptions
	OrderTypes []string
}

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "启动工单轮询",
		Long: `启动工单轮询，直到收到 SIGINT/SIGTERM。

Example:
  ordersync run --config ./config/ordersync.yaml
  ordersync run --order-type case-registration --order-type 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.OrderTypes, "order-type", nil, "只处理指定工单类型（名称或数字，可重复），默认全部")

	return cmd
}

func runWorker(opts *runOptions) error {
	log.Println("========================================")
	log.Println("  ORDERSYNC Worker Starting...")
	log.Println("========================================")

	enabled, err := parseOrderTypes(opts.OrderTypes)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync()

	mgr, err := worker.NewManagerInstance(context.Background(), cfg, enabled, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Start()
	}()

	log.Println("Worker started. Press Ctrl+C to shutdown.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Println("========================================")
		log.Printf("  Received signal: %v\n", sig)
		log.Println("  Shutting down Worker...")
		log.Println("========================================")
	case err := <-errCh:
		if err != nil {
			mgr.Shutdown()
			return fmt.Errorf("manager start failed: %w", err)
		}
	}

	mgr.Shutdown()

	log.Println("Worker exited gracefully")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// parseOrderTypes 解析 --order-type，空表示全部启用
func parseOrderTypes(values []string) (domains.TypeSet, error) {
	types := make([]order.Type, 0, len(values))
	for _, v := range values {
		t, err := order.Parse(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return domains.NewTypeSet(types...), nil
}
