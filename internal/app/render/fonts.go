package render

import (
	"context"
	"path/filepath"

	"github.com/tanbq/tweetpdf/internal/app/csvsource"
	"github.com/tanbq/tweetpdf/internal/app/fetch"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
)

// fontSpecs is the fixed set of resources every export needs before
// rendering can start.
var fontSpecs = []models.FontSpec{
	{
		Family:     "Noto Sans",
		Filename:   "NotoSans-Regular.ttf",
		FormatHint: "truetype",
		URL:        "https://raw.githubusercontent.com/notofonts/noto-fonts/main/hinted/ttf/NotoSans/NotoSans-Regular.ttf",
	},
	{
		Family:     "Noto Sans CJK SC",
		Filename:   "NotoSansCJKsc-Regular.otf",
		FormatHint: "opentype",
		URL:        "https://raw.githubusercontent.com/notofonts/noto-cjk/main/Sans/OTF/SimplifiedChinese/NotoSansCJKsc-Regular.otf",
	},
}

// fontHosts allows exactly the locations the specs point at.
var fontHosts = []string{"raw.githubusercontent.com"}

const maxFontBytes = 64 << 20

// EnsureFonts materializes the required fonts under fontDir through the
// acquisition engine and returns the font faces for the template. Fonts are
// preconditions for rendering, so the run is marked required: any failure
// after retry exhaustion aborts the export.
func EnsureFonts(ctx context.Context, orch *fetch.Orchestrator, fontDir string) ([]models.FontFace, error) {
	const funcName = "render.EnsureFonts"

	tasks := make([]models.FetchTask, 0, len(fontSpecs))
	missing := 0
	for _, spec := range fontSpecs {
		dest := filepath.Join(fontDir, spec.Filename)
		if !fetch.CacheHit(dest) {
			missing++
		}
		tasks = append(tasks, models.FetchTask{
			OwnerID: spec.Filename,
			URL:     spec.URL,
			Dest:    dest,
		})
	}
	logger.Info("checking fonts",
		zap.String("function", funcName),
		zap.Int("required", len(fontSpecs)),
		zap.Int("missing", missing),
	)

	if _, err := orch.Run(ctx, tasks, fetch.Options{
		AllowedHosts: fontHosts,
		Concurrency:  1,
		MaxBytes:     maxFontBytes,
		Required:     true,
	}); err != nil {
		return nil, err
	}

	faces := make([]models.FontFace, 0, len(fontSpecs))
	for _, spec := range fontSpecs {
		faces = append(faces, models.FontFace{
			Family: spec.Family,
			Src:    csvsource.FileURI(filepath.Join(fontDir, spec.Filename)),
			Format: spec.FormatHint,
		})
	}

	return faces, nil
}

// MissingFonts reports how many required fonts are not yet present.
func MissingFonts(fontDir string) int {
	missing := 0
	for _, spec := range fontSpecs {
		if !fetch.CacheHit(filepath.Join(fontDir, spec.Filename)) {
			missing++
		}
	}

	return missing
}
