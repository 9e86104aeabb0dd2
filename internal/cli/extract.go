package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/batch"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the outline of a single document",
	Long: `Extracts the outline of one document and prints it as JSON.
Use --output to write the JSON to a file instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write JSON to this file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	ex, closeFn, err := newExtractor(log)
	if err != nil {
		return err
	}
	defer closeFn()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	res, err := ex.Extract(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return err
	}
	log.Debug("extracted", "source", res.Source, "entries", len(res.Outline.Outline), "cached", res.Cached)

	if extractOutput == "" {
		return batch.WriteOutline(cmd.OutOrStdout(), res.Outline)
	}
	f, err := os.Create(extractOutput)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := batch.WriteOutline(f, res.Outline); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
