package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/charterbid/app"
	"github.com/kilianp07/charterbid/config"
	"github.com/kilianp07/charterbid/infra/logger"
)

var (
	cfgPath   string
	offset    int
	continued bool
)

var rootCmd = &cobra.Command{
	Use:          "charterbid",
	Short:        "Assign charter trips to drivers by seniority",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().IntVar(&offset, "offset", 0, "seniority offset for this run")
	rootCmd.Flags().BoolVar(&continued, "continue", false, "start after the last driver served by the previous run")
	rootCmd.MarkFlagsMutuallyExclusive("offset", "continue")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Logging); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	opts := app.RunOptions{Continue: continued}
	if cmd.Flags().Changed("offset") {
		opts.Offset = &offset
	}
	out, err := svc.Run(ctx, opts)
	if err != nil {
		return err
	}
	s := out.Tables.Summary
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "seats filled %d/%d, %d open, %d rounds (%s)\n", s.SeatsFilled, s.SeatsDeclared, s.SeatsOpen, s.Rounds, s.StoppedWhen)
	if s.LastDriver != "" {
		fmt.Fprintf(w, "last driver %s, next offset %d\n", s.LastDriver, s.NextOffset)
	}
	for _, f := range out.Files {
		fmt.Fprintln(w, f)
	}
	return nil
}
