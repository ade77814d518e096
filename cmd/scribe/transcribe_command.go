package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/enhance"
	"scribe/internal/ipc"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var prompt string
	var enhancement string

	cmd := &cobra.Command{
		Use:   "transcribe <path>...",
		Short: "Transcribe audio files",
		Long: "Transcribe audio files with the speech-to-text backend. Pass --prompt to\n" +
			"route through the multimodal chat backend with a custom instruction, or\n" +
			"--enhancement to use a named template (" + strings.Join(templateNames(), ", ") + ").",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt != "" && enhancement != "" {
				return fmt.Errorf("--prompt and --enhancement are mutually exclusive")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var resp *ipc.TranscribeResponse
				var err error
				switch {
				case prompt != "":
					resp, err = client.TranscribePrompted(args, prompt)
				case enhancement != "":
					resp, err = client.TranscribeEnhanced(args, enhancement)
				default:
					resp, err = client.Transcribe(args)
				}
				if err != nil {
					return err
				}
				return reportTranscripts(cmd.OutOrStdout(), resp.Results)
			})
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Custom instruction for the multimodal backend")
	cmd.Flags().StringVar(&enhancement, "enhancement", "", "Enhancement template: "+strings.Join(templateNames(), ", "))
	return cmd
}

func templateNames() []string {
	templates := enhance.Templates()
	names := make([]string, 0, len(templates))
	for _, template := range templates {
		names = append(names, string(template))
	}
	return names
}

func reportTranscripts(out io.Writer, results []ipc.TranscriptOutcome) error {
	failed := 0
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if result.Failure != nil {
			failed++
			fmt.Fprintf(out, "%s: failed (%s): %s\n", result.Path, result.Failure.Kind, result.Failure.Message)
			continue
		}
		fmt.Fprintf(out, "%s:\n%s\n", result.Path, result.Text)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
