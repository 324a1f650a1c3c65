package commands

import (
	"github.com/bill-tools/smart-bill/pkg/export"
	"github.com/bill-tools/smart-bill/pkg/export/printpdf"
	"github.com/bill-tools/smart-bill/pkg/export/raster"
	"github.com/bill-tools/smart-bill/pkg/export/sheet"
	"github.com/bill-tools/smart-bill/pkg/services/config"
)

// newExportManager registers one renderer per download format, all fed by
// the same layout tree.
func newExportManager(cfg *config.Config) *export.Manager {
	return export.NewManager(map[export.Kind]export.Renderer{
		export.KindRaster: raster.New(raster.Options{
			FontPath:     cfg.FontPath,
			BoldFontPath: cfg.BoldFontPath,
			Quality:      cfg.JPEGQuality,
		}),
		export.KindSheet: sheet.New(),
		export.KindPrint: printpdf.New(printpdf.Options{
			FontPath:     cfg.FontPath,
			BoldFontPath: cfg.BoldFontPath,
		}),
	})
}
