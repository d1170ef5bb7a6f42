//go:build !linux && !darwin && !windows

package action

import (
	"context"
	"errors"
	"runtime"
)

var errUnsupportedOS = errors.New("desktop actions are not supported on " + runtime.GOOS)

func (SystemDesktop) OpenURL(context.Context, string) error { return errUnsupportedOS }

func (SystemDesktop) Launch(context.Context, string) error { return errUnsupportedOS }
