package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"supportbot/config"
	"supportbot/internal/adapter/store"
	"supportbot/internal/usecase"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Compile data files into a knowledge snapshot",
	Long: `Load the product catalog and FAQ files and store them in
.supportbot/knowledge.db within the target directory. Commands run with
--snapshot read from it and refuse it once the data files change.

Examples:
  supportbot index                 # Index current directory
  supportbot index /srv/shop       # Index specific directory
  supportbot index --force         # Rewrite even if unchanged`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rewrite the snapshot even if the data is unchanged")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	if err := config.EnsureStateDir(path); err != nil {
		return fmt.Errorf("failed to create .supportbot directory: %w", err)
	}

	dbPath := config.SnapshotPath(path)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer st.Close()

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(written, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Writing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(written)
		if written > 0 && written < total {
			rate := float64(written) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-written)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Writing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loading data from %s...\n", cfg.ResolveDataDir(path))

	uc := usecase.NewIndexUseCase(st, cfg, logger)
	if cfg.Cache.Backend == "redis" {
		// cached results of running servers were keyed on the old data
		a := &app{}
		defer a.Close()
		rc, err := buildCache(cmd.Context(), cfg.Cache, a)
		if err != nil {
			logger.Warn("result cache not invalidated", zap.Error(err))
		} else {
			uc.WithResultCache(rc)
		}
	}

	result, err := uc.Index(cmd.Context(), path, indexForce, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.Rebuilt {
		fmt.Fprintf(out, "Snapshot rebuilt: %s\n", result.Reason)
	}
	if result.CacheInvalidated {
		fmt.Fprintln(out, "Result cache cleared.")
	}
	if result.Skipped {
		fmt.Fprintf(out, "Snapshot is up to date (fingerprint %s).\n", result.Fingerprint)
		return nil
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Catalog:     %s\n", result.Sources.ProductsPath)
	fmt.Fprintf(out, "  FAQ:         %s\n", result.Sources.FAQPath)
	fmt.Fprintf(out, "  Products:    %d\n", result.Products)
	fmt.Fprintf(out, "  FAQs:        %d\n", result.FAQs)
	fmt.Fprintf(out, "  Fingerprint: %s\n", result.Fingerprint)
	fmt.Fprintf(out, "\nSnapshot stored at: %s\n", dbPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
