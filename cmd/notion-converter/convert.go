package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Conversly/notion-converter/internal/api/conversion"
	"github.com/Conversly/notion-converter/internal/types"
	"github.com/spf13/cobra"
)

var (
	convertOutput         string
	convertJSON           bool
	convertSplitByHeaders bool
	convertChunkSize      int
	convertChunkOverlap   int
)

var convertCmd = &cobra.Command{
	Use:   "convert <documentId>",
	Short: "Convert one Notion page to Markdown",
	Long: `Convert fetches a page's blocks and prints the rendered Markdown, or the full
JSON result with --json. The same validation and error classification as the
HTTP endpoint applies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := types.ConversionRequest{
			DocumentID: args[0],
			Options: &types.ConvertOptions{
				SplitByHeaders: convertSplitByHeaders,
				ChunkSize:      convertChunkSize,
				ChunkOverlap:   convertChunkOverlap,
			},
		}
		documentID, convErr := conversion.ValidateConversionRequest(&req, cfg.StrictIDValidation)
		if convErr != nil {
			return convErr
		}

		result, err := newService(cfg, nil).Convert(cmd.Context(), documentID, req.Options)
		if err != nil {
			var ce *types.ConversionError
			if errors.As(err, &ce) {
				return fmt.Errorf("conversion failed (%d): %w", ce.Kind.StatusCode(), ce)
			}
			return err
		}

		var payload []byte
		if convertJSON {
			payload, err = json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		} else {
			payload = []byte(result.Markdown)
		}
		payload = append(payload, '\n')

		if convertOutput == "" {
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		}
		if err := os.WriteFile(convertOutput, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d blocks to %s\n", result.BlocksCount, convertOutput)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the result to this file instead of stdout")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "print the full JSON result instead of Markdown")
	convertCmd.Flags().BoolVar(&convertSplitByHeaders, "split-by-headers", false, "include header sections in the JSON result")
	convertCmd.Flags().IntVar(&convertChunkSize, "chunk-size", 0, "split sections into chunks of at most this many characters")
	convertCmd.Flags().IntVar(&convertChunkOverlap, "chunk-overlap", 0, "overlap between consecutive chunks")

	rootCmd.AddCommand(convertCmd)
}
