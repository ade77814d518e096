package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Convert audio files to an API-ready container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Convert(args, target)
				if err != nil {
					return err
				}
				return reportTransformOutcomes(cmd.OutOrStdout(), "converted", resp.Results)
			})
		},
	}

	cmd.Flags().StringVar(&target, "to", "mp3", "Target format: mp3 or wav")
	return cmd
}

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var ceiling string

	cmd := &cobra.Command{
		Use:   "compress <path>...",
		Short: "Compress audio files under the upload size ceiling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ceilingBytes int64
			if ceiling != "" {
				parsed, err := parseSize(ceiling)
				if err != nil {
					return err
				}
				ceilingBytes = parsed
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Compress(args, ceilingBytes)
				if err != nil {
					return err
				}
				return reportTransformOutcomes(cmd.OutOrStdout(), "compressed", resp.Results)
			})
		},
	}

	cmd.Flags().StringVar(&ceiling, "ceiling", "", "Size ceiling (e.g. 25MB); defaults to the configured upload limit")
	return cmd
}

// reportTransformOutcomes prints one line per input and returns an error when
// any file failed so the exit code reflects partial failure.
func reportTransformOutcomes(out io.Writer, verb string, results []ipc.TransformOutcome) error {
	failed := 0
	for _, result := range results {
		if result.Failure != nil {
			failed++
			fmt.Fprintf(out, "%s: failed (%s): %s\n", result.Path, result.Failure.Kind, result.Failure.Message)
			continue
		}
		fmt.Fprintf(out, "%s: %s to %s (%s)\n", result.Path, verb, result.File.Path, formatSize(result.File.SizeBytes))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
