package action

import (
	"context"
	"fmt"
	log "log/slog"
	"time"
)

// Executor runs invocations and turns every outcome into result text. It is
// the error boundary between the operating system and the dispatch loop:
// nothing it does returns an error or panics past Execute.
type Executor struct {
	catalog *Catalog
	env     Env
}

func NewExecutor(catalog *Catalog, env Env) *Executor {
	return &Executor{catalog: catalog, env: env}
}

func (e *Executor) Env() Env { return e.env }

// Run binds raw resolver output against the catalog and executes it.
// Binding failures come back as result text too.
func (e *Executor) Run(ctx context.Context, name string, raw map[string]any) string {
	inv, err := e.catalog.Bind(name, raw)
	if err != nil {
		log.Warn("Rejected invocation", "action", name, "err", err)
		return fmt.Sprintf("Cannot run %s: %v", name, err)
	}
	return e.Execute(ctx, inv)
}

// Execute performs the side effect. Effects are committed, there is no
// rollback.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (result string) {
	d := inv.Action
	if d == nil || d.run == nil {
		return "Cannot run an empty action"
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Action panicked", "action", d.Name, "panic", r)
			result = fmt.Sprintf("Error %s: %v", d.failure, r)
		}
		log.Debug("Action finished", "action", d.Name, "took", time.Since(start))
	}()

	log.Info("Executing action", "action", d.Name, "args", inv.Args)

	out, err := d.run(ctx, e.env, inv.Args)
	if err != nil {
		log.Warn("Action failed", "action", d.Name, "err", err)
		return fmt.Sprintf("Error %s: %v", d.failure, err)
	}
	if out == "" {
		return fmt.Sprintf("Finished %s", d.Name)
	}
	return out
}
