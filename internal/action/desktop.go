package action

import (
	"fmt"
	log "log/slog"
	"os/exec"
)

// SystemDesktop drives the real browser and application launcher of the
// host OS.
type SystemDesktop struct{}

// spawn starts a detached process and does not wait for it.
func spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	log.Debug("Spawned process", "cmd", name, "pid", cmd.Process.Pid)
	return cmd.Process.Release()
}
