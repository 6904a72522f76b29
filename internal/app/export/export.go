package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/tanbq/tweetpdf/internal/app/csvsource"
	"github.com/tanbq/tweetpdf/internal/app/fetch"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/app/render"
	"github.com/tanbq/tweetpdf/internal/config"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
)

// Params are the per-invocation knobs from the CLI, on top of config.Config.
type Params struct {
	CSVPath       string
	OutPath       string
	Start         time.Time
	End           time.Time
	FilterEnabled bool
	SortDesc      bool
}

// Run drives the whole export: fonts, CSV, media acquisition, PDF, cleanup.
func Run(ctx context.Context, cfg *config.Config, params Params) error {
	const funcName = "export.Run"

	fmt.Println("[1/6] Checking fonts...")
	faces, err := ensureFonts(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Println("[3/6] Reading CSV and preparing rows...")
	posts, err := csvsource.ReadPosts(params.CSVPath)
	if err != nil {
		return err
	}
	posts = csvsource.FilterByRange(posts, params.Start, params.End, params.FilterEnabled)
	csvsource.SortByDate(posts, params.SortDesc)
	fmt.Printf("Tweets in output scope: %d\n", len(posts))

	if err := downloadMedia(ctx, cfg, posts); err != nil {
		return err
	}

	fmt.Println("[5/6] Rendering PDF...")
	outPath := params.OutPath
	if outPath == "" {
		outPath = DefaultOutPath(params.CSVPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	html, err := render.HTML(posts, faces, "Tweet Export")
	if err != nil {
		return err
	}
	if err := render.WritePDF(html, outPath); err != nil {
		return err
	}

	fmt.Println("[6/6] Cleaning cache...")
	removedFiles, removedBytes := cleanCache(cfg.DownloadDir)
	fmt.Printf("Cache cleaned: removed %d files, freed %s\n", removedFiles, formatSize(removedBytes))
	fmt.Printf("OK: wrote %s\n", outPath)

	logger.Info("export finished",
		zap.String("function", funcName),
		zap.String("out", outPath),
		zap.Int("posts", len(posts)),
	)

	return nil
}

// InitFonts downloads the required fonts and nothing else, for --init.
func InitFonts(ctx context.Context, cfg *config.Config) error {
	fmt.Println("[1/6] Checking fonts...")
	if _, err := ensureFonts(ctx, cfg); err != nil {
		return err
	}
	fmt.Println("Init complete: fonts and templates are ready.")

	return nil
}

func ensureFonts(ctx context.Context, cfg *config.Config) ([]models.FontFace, error) {
	missing := render.MissingFonts(cfg.FontDir)
	if missing > 0 {
		fmt.Printf("[2/6] Downloading missing fonts (%d)...\n", missing)
	} else {
		fmt.Println("[2/6] Fonts already present.")
	}

	orch := fetch.NewOrchestrator(fetch.NewHTTPFetcher(cfg.FontTimeout), fetch.DefaultRetryPolicy())
	return render.EnsureFonts(ctx, orch, cfg.FontDir)
}

func downloadMedia(ctx context.Context, cfg *config.Config, posts []*models.Post) error {
	mediaDir := filepath.Join(cfg.DownloadDir, "media")
	tasks := csvsource.MediaTasks(posts, mediaDir)
	if len(tasks) == 0 {
		fmt.Println("[4/6] Media download skipped (no downloadable media).")
		return nil
	}

	fmt.Printf("[4/6] Downloading media (%d files, concurrency=%d)...\n", len(tasks), cfg.Concurrency)
	bar := progressbar.NewOptions(len(tasks),
		progressbar.OptionSetDescription("Downloading media"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	orch := fetch.NewOrchestrator(fetch.NewHTTPFetcher(cfg.MediaTimeout), fetch.DefaultRetryPolicy())
	report, err := orch.Run(ctx, tasks, fetch.Options{
		AllowedHosts: cfg.AllowedHosts,
		Concurrency:  cfg.Concurrency,
		MaxBytes:     cfg.MaxMediaBytes,
		OnTaskDone:   func() { _ = bar.Add(1) },
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	csvsource.AttachMedia(posts, report)

	return nil
}

// DefaultOutPath places the PDF next to the CSV, swapping the extension.
func DefaultOutPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return strings.TrimSuffix(csvPath, ext) + ".pdf"
}

// cleanCache removes the download cache root, best effort, reporting how many
// files and bytes were reclaimed.
func cleanCache(root string) (files int, bytes int64) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		files++
		if info, infoErr := d.Info(); infoErr == nil {
			bytes += info.Size()
		}
		return nil
	})
	if err := os.RemoveAll(root); err != nil {
		logger.Warn("cache cleanup incomplete", zap.String("root", root), zap.Error(err))
	}

	return files, bytes
}

func formatSize(totalBytes int64) string {
	if totalBytes >= 1<<30 {
		return fmt.Sprintf("%.2f GB", float64(totalBytes)/float64(1<<30))
	}

	return fmt.Sprintf("%.2f MB", float64(totalBytes)/float64(1<<20))
}
