package action

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	HomeURL   = "https://www.google.com"
	searchURL = "https://www.google.com/search"
)

var errNoDesktop = errors.New("no desktop integration configured")

// Desktop is the OS integration behind the browser and app actions.
type Desktop interface {
	OpenURL(ctx context.Context, url string) error
	Launch(ctx context.Context, app string) error
}

// SearchURL builds the Google query URL for q.
func SearchURL(q string) string {
	return searchURL + "?" + url.Values{"q": {q}}.Encode()
}

func openBrowser(ctx context.Context, env Env, _ Args) (string, error) {
	if env.Desktop == nil {
		return "", errNoDesktop
	}
	if err := env.Desktop.OpenURL(ctx, HomeURL); err != nil {
		return "", err
	}
	return "Browser opened", nil
}

func searchWeb(ctx context.Context, env Env, args Args) (string, error) {
	if env.Desktop == nil {
		return "", errNoDesktop
	}
	query := strings.TrimSpace(args["query"])
	if query == "" {
		return "", fmt.Errorf("%w: empty query", ErrInvalidArgument)
	}
	if err := env.Desktop.OpenURL(ctx, SearchURL(query)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Searched for %s", query), nil
}

func launchApp(ctx context.Context, env Env, args Args) (string, error) {
	if env.Desktop == nil {
		return "", errNoDesktop
	}
	app := strings.TrimSpace(args["app_name"])
	if app == "" {
		return "", fmt.Errorf("%w: empty application name", ErrInvalidArgument)
	}
	if err := env.Desktop.Launch(ctx, app); err != nil {
		return "", err
	}
	return fmt.Sprintf("Opened %s", app), nil
}
