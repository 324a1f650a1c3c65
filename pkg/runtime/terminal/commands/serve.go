package commands

import (
	"os"

	"github.com/bill-tools/smart-bill/pkg/export"
	handlers "github.com/bill-tools/smart-bill/pkg/handlers/document"
	"github.com/bill-tools/smart-bill/pkg/server"
	"github.com/bill-tools/smart-bill/pkg/services/config"
	"github.com/bill-tools/smart-bill/pkg/services/document"
	"github.com/bill-tools/smart-bill/pkg/store/snapshot"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ServeCmd struct {
	configPath string
	addr       string
}

func NewServeCmd() *cobra.Command {
	sc := &ServeCmd{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the estimate editing server",
		RunE:  sc.run,
	}

	// Define flags
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&sc.addr, "addr", "", "Listen address (overrides the config file)")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return err
	}
	if sc.addr != "" {
		cfg.Addr = sc.addr
	}

	store, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	manager := newExportManager(cfg)
	manager.SetObserver(func(kind export.Kind, name string) {
		logger.Info().Str("kind", string(kind)).Str("file", name).Msg("export produced")
	})

	handler := handlers.NewHandler(document.New(), manager, store)

	api := server.NewWebAPI(logger, server.Config{
		Addr: cfg.Addr,
		Dependencies: server.Dependencies{
			Document: handler,
			Logger:   logger,
		},
	})

	return api.Start()
}
