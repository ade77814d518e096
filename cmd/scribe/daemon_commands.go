package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the scribed daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if pid, err := daemonPID(ctx); err == nil {
				fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", pid)
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")
			if err := launchDaemon(ctx, exe); err != nil {
				return err
			}
			pid, err := waitForDaemon(ctx, 10*time.Second)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Daemon started (pid %d)\n", pid)
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the scribed daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			pid, err := daemonPID(ctx)
			if err != nil {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("find daemon process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("signal daemon process %d: %w", pid, err)
			}
			if err := waitForDaemonExit(ctx, 5*time.Second); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Running", yesNo(status.Running)},
					{"PID", fmt.Sprintf("%d", status.PID)},
					{"Started", status.StartedAt.Local().Format("2006-01-02 15:04:05")},
					{"Audio directory", status.AudioDir},
					{"Socket", status.SocketPath},
					{"Lock file", status.LockPath},
					{"Cache entries", fmt.Sprintf("%d", status.CacheEntries)},
					{"Transcriber configured", yesNo(status.Transcriber)},
				}
				fmt.Fprintln(stdout, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
				return nil
			})
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the scribed daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if pid, err := daemonPID(ctx); err == nil {
				process, err := os.FindProcess(pid)
				if err != nil {
					return fmt.Errorf("find daemon process %d: %w", pid, err)
				}
				if err := process.Signal(syscall.SIGTERM); err != nil {
					return fmt.Errorf("signal daemon process %d: %w", pid, err)
				}
				if err := waitForDaemonExit(ctx, 5*time.Second); err != nil {
					return err
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			if err := launchDaemon(ctx, exe); err != nil {
				return err
			}
			pid, err := waitForDaemon(ctx, 10*time.Second)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Daemon restarted (pid %d)\n", pid)
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

// daemonPID pings the daemon over its socket and returns the reported PID.
func daemonPID(ctx *commandContext) (int, error) {
	client, err := ctx.dialClient()
	if err != nil {
		return 0, err
	}
	defer client.Close()
	resp, err := client.Ping()
	if err != nil {
		return 0, err
	}
	return resp.PID, nil
}

// daemonExecutable locates the scribed binary next to the current executable,
// falling back to PATH lookup.
func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "scribed")
		if info, statErr := os.Stat(sibling); statErr == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	path, lookErr := exec.LookPath("scribed")
	if lookErr != nil {
		return "", fmt.Errorf("locate scribed binary: %w", lookErr)
	}
	return path, nil
}

func launchDaemon(ctx *commandContext, exe string) error {
	args := []string{}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			args = append(args, "--config", config)
		}
	}
	cmd := exec.Command(exe, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch scribed: %w", err)
	}
	return cmd.Process.Release()
}

func waitForDaemon(ctx *commandContext, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		pid, err := daemonPID(ctx)
		if err == nil {
			return pid, nil
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("daemon did not come up within %s: %w", timeout, err)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func waitForDaemonExit(ctx *commandContext, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := daemonPID(ctx); err != nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("daemon did not stop within %s", timeout)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
