package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/models"
)

const (
	// daemonBinary is the daemon executable name.
	daemonBinary = "aetherd"

	// daemonLogFile receives the output of a daemon started by the CLI.
	daemonLogFile = "aetherd.log"

	daemonStartTimeout = 5 * time.Second
)

// EnsureDaemon makes sure the daemon is running, starting it if necessary.
func EnsureDaemon() error {
	info, err := runningDaemon()
	if err != nil {
		return err
	}
	if info != nil {
		return nil
	}
	return startDaemon()
}

// runningDaemon returns the live daemon's info, or nil if none is running.
// IsDaemonRunning already discards info left behind by a dead process.
func runningDaemon() (*models.DaemonInfo, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		return nil, nil
	}
	return info, nil
}

// startDaemon starts the daemon in the background and waits until it has
// published its daemon info.
func startDaemon() error {
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	cmd := exec.Command(daemonPath)
	if dir, err := config.GlobalDir(); err == nil {
		logFile, err := os.OpenFile(filepath.Join(dir, daemonLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err == nil {
			defer logFile.Close()
			cmd.Stdout = logFile
			cmd.Stderr = logFile
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	// The daemon outlives this process.
	_ = cmd.Process.Release()

	deadline := time.Now().Add(daemonStartTimeout)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		if info, err := runningDaemon(); err == nil && info != nil {
			return nil
		}
	}
	return fmt.Errorf("daemon failed to start within %s", daemonStartTimeout)
}

// findDaemonBinary locates the aetherd binary: next to this executable
// first, then on PATH, then in the build directory.
func findDaemonBinary() (string, error) {
	name := daemonBinary
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if execPath, err := os.Executable(); err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	if path, err := exec.LookPath(daemonBinary); err == nil {
		return path, nil
	}

	buildPath := filepath.Join("build", name)
	if _, err := os.Stat(buildPath); err == nil {
		return buildPath, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", daemonBinary)
}
