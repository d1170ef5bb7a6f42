// Package intent maps one utterance to at most one catalog action.
//
// The reasoning engine behind a Resolver is external; this package owns the
// request/response contract, the prompts and schemas derived from the
// catalog, and the resolution policy that keeps a single action per
// utterance no matter how many the engine proposed.
package intent

import (
	"context"
	log "log/slog"

	jsoniter "github.com/json-iterator/go"

	"deskvox/internal/action"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Request struct {
	Catalog   *action.Catalog
	Utterance string
}

// Call is an action proposed by an engine, arguments still unvalidated.
type Call struct {
	Name string
	Args map[string]any
}

// Resolution holds the selected call, nil when nothing matched.
type Resolution struct {
	Call *Call
}

func (r Resolution) Matched() bool { return r.Call != nil }

type Resolver interface {
	Resolve(ctx context.Context, req Request) (Resolution, error)
}

// Choose applies the resolution policy to engine proposals: calls naming
// unknown actions are dropped, then every call excluded by another proposed
// call, then all but the first. The dropped calls are returned for logging.
func Choose(catalog *action.Catalog, calls []Call) (*Call, []Call) {
	var known, dropped []Call
	for _, c := range calls {
		if _, ok := catalog.Get(c.Name); ok {
			known = append(known, c)
		} else {
			dropped = append(dropped, c)
		}
	}

	var kept []Call
	for i, c := range known {
		excluded := false
		for j, other := range known {
			if i == j || other.Name == c.Name {
				continue
			}
			if d, _ := catalog.Get(other.Name); d.Excluded(c.Name) {
				excluded = true
				break
			}
		}
		if excluded {
			dropped = append(dropped, c)
		} else {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return nil, dropped
	}
	first := kept[0]
	return &first, append(dropped, kept[1:]...)
}

// Decide applies Choose for a backend and logs what it dropped. Every
// backend ends its Resolve with it.
func Decide(backend string, req Request, calls []Call) Resolution {
	chosen, dropped := Choose(req.Catalog, calls)
	for _, c := range dropped {
		log.Warn("Dropped proposed action", "backend", backend, "action", c.Name)
	}
	if chosen == nil {
		log.Debug("No action matched", "backend", backend, "utterance", req.Utterance)
		return Resolution{}
	}
	log.Debug("Resolved action", "backend", backend, "action", chosen.Name, "args", chosen.Args)
	return Resolution{Call: chosen}
}

// DecodeArguments parses a JSON argument object. Empty input is no args.
func DecodeArguments(raw string) (map[string]any, error) {
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}
