// Package tool defines the typed command contract the conversational agent
// layer invokes. Each command declares a name, a description and an input
// schema, so any agent framework can adapt the registry to its own
// tool-calling convention without the core knowing about it.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Command is a named operation with a declared input schema. Invoke returns
// the text the agent relays to the user; it returns an error only for
// malformed input, never for business outcomes.
type Command interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Invoke(ctx context.Context, input json.RawMessage) (string, error)
}

// Registry holds the commands exposed to the agent layer.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry(commands ...Command) (*Registry, error) {
	r := &Registry{commands: make(map[string]Command)}
	for _, c := range commands {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[c.Name()]; exists {
		return fmt.Errorf("command %q already registered", c.Name())
	}
	r.commands[c.Name()] = c
	return nil
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// Commands lists registered commands for schema export to the agent layer.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Invoke(ctx context.Context, name string, input json.RawMessage) (string, error) {
	c, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown command %q", name)
	}
	return c.Invoke(ctx, input)
}
