//go:build darwin

package action

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func (SystemDesktop) OpenURL(ctx context.Context, url string) error {
	out, err := exec.CommandContext(ctx, "open", url).CombinedOutput()
	if err != nil {
		return fmt.Errorf("open: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (SystemDesktop) Launch(ctx context.Context, app string) error {
	out, err := exec.CommandContext(ctx, "open", "-a", app).CombinedOutput()
	if err != nil {
		return fmt.Errorf("open -a: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
