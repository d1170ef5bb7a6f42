//go:build linux

package action

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func (SystemDesktop) OpenURL(ctx context.Context, url string) error {
	out, err := exec.CommandContext(ctx, "xdg-open", url).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xdg-open: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Launch tries the spoken name as an executable, then as a desktop entry.
func (SystemDesktop) Launch(_ context.Context, app string) error {
	lower := strings.ToLower(app)
	for _, name := range []string{app, lower, strings.ReplaceAll(lower, " ", "-")} {
		if path, err := exec.LookPath(name); err == nil {
			return spawn(path)
		}
	}

	if _, err := exec.LookPath("gtk-launch"); err != nil {
		return fmt.Errorf("application %q not found", app)
	}
	return spawn("gtk-launch", lower)
}
