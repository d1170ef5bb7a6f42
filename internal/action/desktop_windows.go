//go:build windows

package action

import (
	"context"
	"fmt"
	"os/exec"
)

func (SystemDesktop) OpenURL(ctx context.Context, url string) error {
	if err := exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url).Run(); err != nil {
		return fmt.Errorf("rundll32: %w", err)
	}
	return nil
}

func (SystemDesktop) Launch(_ context.Context, app string) error {
	return spawn(app)
}
