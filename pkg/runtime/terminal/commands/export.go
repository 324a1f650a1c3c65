package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bill-tools/smart-bill/pkg/export"
	"github.com/bill-tools/smart-bill/pkg/services/config"
	"github.com/bill-tools/smart-bill/pkg/services/document"
	"github.com/bill-tools/smart-bill/pkg/store/snapshot"

	"github.com/spf13/cobra"
)

type ExportCmd struct {
	configPath string
	inPath     string
	format     string
	outDir     string
}

func NewExportCmd() *cobra.Command {
	ec := &ExportCmd{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a saved draft into a downloadable file",
		RunE:  ec.run,
	}

	// Define flags
	cmd.Flags().StringVar(&ec.configPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&ec.inPath, "in", "", "Path to a draft file (default is the saved snapshot)")
	cmd.Flags().StringVar(&ec.format, "format", "jpg", "Output format: jpg, xlsx or pdf")
	cmd.Flags().StringVar(&ec.outDir, "out", "", "Directory to write the file into")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	cfg, err := config.Load(ec.configPath)
	if err != nil {
		return err
	}

	inPath := ec.inPath
	if inPath == "" {
		store, err := snapshot.NewStore(cfg.SnapshotDir)
		if err != nil {
			return err
		}
		inPath = store.Path()
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read draft %q: %w", inPath, err)
	}

	svc := document.New()
	if err := svc.Restore(data); err != nil {
		return fmt.Errorf("failed to parse draft %q: %w", inPath, err)
	}

	manager := newExportManager(cfg)
	artifact, err := manager.Export(ctx, svc.Document(), export.Kind(ec.format))
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", ec.format, err)
	}

	outDir := ec.outDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	outPath := filepath.Join(outDir, artifact.Name)
	if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", outPath, err)
	}

	cmd.Printf("wrote %s (%d bytes)\n", outPath, len(artifact.Data))
	return nil
}
