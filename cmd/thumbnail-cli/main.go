// Package main provides a local CLI counterpart of the thumbnail Lambda.
// It runs the same decode → resize → encode pipeline against files on disk,
// writing variants and a manifest to an output directory. Useful for
// checking resize quality and manifest contents without deploying.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/thumbnail-pipeline/internal/keyutil"
	"github.com/fpang/thumbnail-pipeline/internal/logging"
	"github.com/fpang/thumbnail-pipeline/internal/pipeline"
	"github.com/fpang/thumbnail-pipeline/internal/resize"
)

// CLI flags
var outDirFlag string

// rootCmd is the main Cobra command for the thumbnail CLI.
var rootCmd = &cobra.Command{
	Use:   "thumbnail-cli [files...]",
	Short: "Generate 50/100/200px square thumbnails for local image files",
	Long: `Thumbnail CLI runs the resize pipeline locally. For every input image it
produces the same fixed-size square variants the Lambda produces
(50x50, 100x100, 200x200) plus a JSON manifest, and writes them to the
output directory.

Examples:
  thumbnail-cli vacation.jpg
  thumbnail-cli -o ./thumbs photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	Run:  runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&outDirFlag, "out", "o", ".", "Directory to write variants and manifests to")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	if err := os.MkdirAll(outDirFlag, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", outDirFlag).Msg("Failed to create output directory")
	}

	for _, path := range args {
		if err := processFile(path); err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Thumbnail generation failed")
		}
	}
}

// processFile mirrors the Lambda's per-record flow against the local
// filesystem: read source, resize per size, write variants, write manifest.
func processFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	name := filepath.Base(path)
	base, _ := keyutil.SplitExt(name)

	entries := make([]pipeline.Entry, 0, len(pipeline.Sizes))
	for _, size := range pipeline.Sizes {
		variant, err := resize.Thumbnail(src, size)
		if err != nil {
			return err
		}

		destName := fmt.Sprintf("%s-%dx%d.%s", base, size, size, variant.Ext)
		destPath := filepath.Join(outDirFlag, destName)
		if err := os.WriteFile(destPath, variant.Data, 0o644); err != nil {
			return fmt.Errorf("write variant: %w", err)
		}
		log.Info().Str("variant", destPath).Int("size", size).Msg("Variant written")

		entries = append(entries, pipeline.Entry{
			Key:    destName,
			URL:    "file://" + destPath,
			Width:  size,
			Height: size,
		})
	}

	manifest, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	manifestPath := filepath.Join(outDirFlag, name+".thumbnails.json")
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	log.Info().Str("manifest", manifestPath).Int("variants", len(entries)).Msg("File complete")
	return nil
}
