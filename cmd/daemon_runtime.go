package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// daemonRuntimeState is what a running daemon records for `daemon status` and `daemon stop`.
type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataFile  string    `json:"data_file"`
}

// runtimeFile is the path of the daemon's runtime record.
type runtimeFile string

func (f runtimeFile) write(st daemonRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(string(f), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing runtime file: %w", err)
	}
	return nil
}

func (f runtimeFile) read() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // runtime path is configured by the local user
	data, err := os.ReadFile(string(f))
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("decoding %s: %w", f, err)
	}
	if st.PID <= 0 {
		return st, fmt.Errorf("invalid pid in %s", f)
	}
	return st, nil
}

func (f runtimeFile) remove() {
	_ = os.Remove(string(f))
}

// ensureNotRunning fails when a live daemon owns the file and clears a stale one.
func (f runtimeFile) ensureNotRunning() error {
	st, err := f.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err == nil && processAlive(st.PID):
		return fmt.Errorf("daemon already running (pid %d)", st.PID)
	}
	f.remove()
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
