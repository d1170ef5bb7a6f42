package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	log "log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	emptyDirectory = "Directory is empty."
	emptyFile      = "File is empty."
	noMatches      = "No matches found"
)

func listDirectory(_ context.Context, env Env, args Args) (string, error) {
	entries, err := os.ReadDir(env.Resolve(args["path"]))
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return emptyDirectory, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return strings.Join(names, "\n"), nil
}

func readFile(_ context.Context, env Env, args Args) (string, error) {
	data, err := os.ReadFile(env.Resolve(args["path"]))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return emptyFile, nil
	}
	return string(data), nil
}

func writeFile(_ context.Context, env Env, args Args) (string, error) {
	path := args["path"]
	if err := os.WriteFile(env.Resolve(path), []byte(args["content"]), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote to %s", path), nil
}

func deleteItem(_ context.Context, env Env, args Args) (string, error) {
	path := args["path"]
	full := env.Resolve(path)

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Path not found: %s", path), nil
	}
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		if err := os.RemoveAll(full); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted directory %s", path), nil
	}

	if err := os.Remove(full); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted file %s", path), nil
}

func moveItem(_ context.Context, env Env, args Args) (string, error) {
	src, dst := args["src"], args["dst"]
	from, to := env.Resolve(src), env.Resolve(dst)

	info, err := os.Lstat(from)
	if err != nil {
		return "", err
	}

	// Moving onto an existing directory drops the item inside it.
	if st, err := os.Stat(to); err == nil && st.IsDir() {
		to = filepath.Join(to, filepath.Base(from))
	}

	if err := os.Rename(from, to); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return "", err
		}
		log.Debug("Rename crosses devices, copying", "src", from, "dst", to)
		if err := copyItem(from, to, info); err != nil {
			return "", fmt.Errorf("copy: %w", err)
		}
		if err := os.RemoveAll(from); err != nil {
			return "", fmt.Errorf("remove source: %w", err)
		}
	}

	return fmt.Sprintf("Moved %s to %s", src, dst), nil
}

// copyItem copies from to a new path. A failed copy leaves nothing at to.
func copyItem(from, to string, info fs.FileInfo) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%s: %w", to, fs.ErrExist)
	}
	if err := copyNew(from, to, info); err != nil {
		os.RemoveAll(to)
		return err
	}
	return nil
}

func copyNew(from, to string, info fs.FileInfo) error {
	if info.IsDir() {
		return os.CopyFS(to, os.DirFS(from))
	}

	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func createDirectory(_ context.Context, env Env, args Args) (string, error) {
	path := args["path"]
	if err := os.MkdirAll(env.Resolve(path), 0o755); err != nil {
		return "", err
	}
	return fmt.Sprintf("Created directory %s", path), nil
}

func searchFiles(_ context.Context, env Env, args Args) (string, error) {
	pattern := globPattern(args["pattern"])
	if pattern == "" {
		return "", fmt.Errorf("%w: empty pattern", ErrInvalidArgument)
	}
	if !doublestar.ValidatePattern(pattern) {
		return "", fmt.Errorf("%w: %s", doublestar.ErrBadPattern, args["pattern"])
	}

	root := args["path"]
	matches, err := doublestar.Glob(os.DirFS(env.Resolve(root)), pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return noMatches, nil
	}

	if len(matches) > MaxSearchResults {
		log.Debug("Truncated file search", "pattern", pattern, "matches", len(matches), "kept", MaxSearchResults)
		matches = matches[:MaxSearchResults]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return strings.Join(out, "\n"), nil
}

// globPattern makes p relative and matches it at any depth. Empty means
// nothing is left to match.
func globPattern(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimLeft(p, "/")
	p = strings.TrimPrefix(p, "./")
	if p == "" || p == "." {
		return ""
	}
	if !strings.HasPrefix(p, "**/") {
		p = "**/" + p
	}
	return p
}
