// Package action holds the closed set of local-system operations the
// assistant may perform, and the executor that runs them.
//
// Every operation reports back a plain text result. There is no structured
// success flag: the text is the only channel to the user.
package action

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Param is a single string argument of an action.
type Param struct {
	Name        string
	Description string
	// Optional params are filled with Default when the caller omits them.
	Optional bool
	Default  string
}

// Func implements an action. A returned error is rendered by the Executor
// using the descriptor's failure label.
type Func func(ctx context.Context, env Env, args Args) (string, error)

// Descriptor declares one catalog entry.
type Descriptor struct {
	Name string
	// Description is the only signal the intent resolver gets about when to
	// pick this action.
	Description string
	Params      []Param
	// Excludes lists actions that must never be selected together with this
	// one for the same utterance.
	Excludes []string

	failure string
	run     Func
}

func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Required returns the names of params without a default, in declaration order.
func (d *Descriptor) Required() []string {
	var out []string
	for _, p := range d.Params {
		if !p.Optional {
			out = append(out, p.Name)
		}
	}
	return out
}

// Excluded reports whether other must not run alongside d.
func (d *Descriptor) Excluded(other string) bool {
	for _, x := range d.Excludes {
		if x == other {
			return true
		}
	}
	return false
}

type Args map[string]string

// Invocation is one resolved action with concrete, validated arguments.
type Invocation struct {
	Action *Descriptor
	Args   Args
}

// Env is the explicit execution environment threaded into every action.
type Env struct {
	// BaseDir is the root for relative paths.
	BaseDir string
	Desktop Desktop
}

// Resolve maps a user supplied path onto the filesystem. Relative paths are
// joined with BaseDir, a leading ~ expands to the home directory.
func (e Env) Resolve(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if path == "" {
		path = "."
	}
	if filepath.IsAbs(path) || e.BaseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(e.BaseDir, path)
}
