package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/batch"
	"github.com/dgallion1/docoutline/internal/config"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract outlines for every document in a directory",
	Long: `Processes every supported document in the input directory and writes
<name>.json for each into the output directory. Failures are logged and
skipped. With --watch, keeps running and processes new files as they arrive.

Defaults come from INPUT_DIR, OUTPUT_DIR and WORKER_COUNT.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringP("input", "i", "", "input directory (default $INPUT_DIR or ./input)")
	batchCmd.Flags().StringP("output", "o", "", "output directory (default $OUTPUT_DIR or ./output)")
	batchCmd.Flags().IntP("workers", "w", 0, "concurrent documents (default $WORKER_COUNT)")
	batchCmd.Flags().Bool("watch", false, "watch the input directory for new documents")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	workers, _ := cmd.Flags().GetInt("workers")
	watch, _ := cmd.Flags().GetBool("watch")
	if input == "" {
		input = cfg.InputDir
	}
	if output == "" {
		output = cfg.OutputDir
	}
	if workers <= 0 {
		workers = cfg.WorkerCount
	}

	log := newLogger(cmd.ErrOrStderr())
	ex, closeFn, err := newExtractor(log)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(ex, output, workers, log)
	sum, err := runner.Run(ctx, input)
	if err != nil {
		return err
	}
	cmd.Printf("Processed %d document(s), %d failed, in %s\n", sum.Processed, sum.Failed, sum.Duration.Round(time.Millisecond))

	if !watch {
		return nil
	}
	return runner.Watch(ctx, input)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
