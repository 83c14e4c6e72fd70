package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	registerCmd "github.com/Alturino/pos/cart/cmd"
	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
	reportCmd "github.com/Alturino/pos/report/cmd"
)

func Start() {
	logger := log.NewLogger(os.Stdout, "").
		With().
		Str(log.KeyAppName, otel.AppName).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	configName := ""
	var cfg *config.Config
	rootCmd := &cobra.Command{
		Use:           otel.AppName,
		Short:         "Point of sale register and sales reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.InitConfig(cmd.Context(), configName)
			pLogger := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env).
				With().
				Str(log.KeyAppName, otel.AppName).
				Str(log.KeyCommand, cmd.Name()).
				Logger()
			cmd.SetContext(pLogger.WithContext(cmd.Context()))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configName, "config", otel.AppName, "config file name under ./env without extension")

	reportDate := ""
	report := &cobra.Command{
		Use:   "report",
		Short: "Print the sales report of one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCmd.RunReport(cmd.Context(), cfg, reportDate, cmd.OutOrStdout())
		},
	}
	report.Flags().StringVar(&reportDate, "date", "", "day to report as YYYY-MM-DD, defaults to today")

	commands := []*cobra.Command{
		{
			Use:   "register",
			Short: "Run the register server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return registerCmd.RunRegisterServer(cmd.Context(), cfg)
			},
		},
		{
			Use:   "admin",
			Short: "Run the admin reports server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return reportCmd.RunAdminServer(cmd.Context(), cfg)
			},
		},
		report,
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		zerolog.Ctx(c).Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
