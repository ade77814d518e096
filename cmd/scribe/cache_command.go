package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Metadata cache utilities",
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all cached file metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CacheReset()
				if err != nil {
					return err
				}
				if !resp.Reset {
					return fmt.Errorf("daemon did not acknowledge cache reset")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache reset")
				return nil
			})
		},
	}

	cacheCmd.AddCommand(resetCmd)
	return cacheCmd
}
