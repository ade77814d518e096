package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		pattern     string
		minSize     string
		maxSize     string
		minDuration float64
		maxDuration float64
		after       string
		before      string
		format      string
		sortBy      string
		sortDesc    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audio files in the drop folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.ListRequest{
				Pattern:  pattern,
				Format:   format,
				SortBy:   sortBy,
				SortDesc: sortDesc,
			}
			if minSize != "" {
				bytes, err := parseSize(minSize)
				if err != nil {
					return err
				}
				req.MinSizeBytes = &bytes
			}
			if maxSize != "" {
				bytes, err := parseSize(maxSize)
				if err != nil {
					return err
				}
				req.MaxSizeBytes = &bytes
			}
			if cmd.Flags().Changed("min-duration") {
				req.MinDurationSeconds = &minDuration
			}
			if cmd.Flags().Changed("max-duration") {
				req.MaxDurationSeconds = &maxDuration
			}
			if after != "" {
				parsed, err := parseTime(after)
				if err != nil {
					return err
				}
				req.ModifiedAfter = &parsed
			}
			if before != "" {
				parsed, err := parseTime(before)
				if err != nil {
					return err
				}
				req.ModifiedBefore = &parsed
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.List(req)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Files) == 0 {
					fmt.Fprintln(stdout, "No audio files matched")
					return nil
				}
				fmt.Fprintln(stdout, renderFileTable(resp.Files))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression matched against file names")
	cmd.Flags().StringVar(&minSize, "min-size", "", "Minimum file size (e.g. 8MB)")
	cmd.Flags().StringVar(&maxSize, "max-size", "", "Maximum file size (e.g. 25MB)")
	cmd.Flags().Float64Var(&minDuration, "min-duration", 0, "Minimum duration in seconds")
	cmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "Maximum duration in seconds")
	cmd.Flags().StringVar(&after, "modified-after", "", "Only files modified at or after this time")
	cmd.Flags().StringVar(&before, "modified-before", "", "Only files modified at or before this time")
	cmd.Flags().StringVar(&format, "format", "", "Only files with this container format")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort key: name, size, duration, modified, format")
	cmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort in descending order")
	return cmd
}

func newLatestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recently modified audio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Latest()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderFileTable([]ipc.FileRecord{resp.File}))
				return nil
			})
		},
	}
}
