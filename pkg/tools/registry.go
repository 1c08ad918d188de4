// Copyright 2025 The MindDish Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the closed tool catalog. Registration happens once at
// startup; after that the registry is read-only and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(tool Tool) error {
	info := tool.GetInfo()
	if info.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[info.Name]; exists {
		return fmt.Errorf("tool %q already registered", info.Name)
	}
	r.tools[info.Name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tool metadata, sorted by name.
func (r *Registry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, t.GetInfo())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Execute validates args against the tool's parameter schema and runs it.
// Schema violations yield ErrInvalidToolInput and the tool never executes.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (ToolResult, error) {
	tool, ok := r.Get(name)
	if !ok {
		return ToolResult{}, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	if err := ValidateArgs(tool.GetInfo(), args); err != nil {
		return ToolResult{}, err
	}

	return tool.Execute(ctx, args)
}

// ValidateArgs checks args against a tool's declared parameters.
func ValidateArgs(info ToolInfo, args map[string]any) error {
	declared := make(map[string]ToolParameter, len(info.Parameters))
	for _, p := range info.Parameters {
		declared[p.Name] = p
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("%w: tool %q does not accept parameter %q",
				ErrInvalidToolInput, info.Name, name)
		}
	}

	for _, p := range info.Parameters {
		val, present := args[p.Name]
		if !present {
			if p.Required {
				return fmt.Errorf("%w: tool %q requires parameter %q",
					ErrInvalidToolInput, info.Name, p.Name)
			}
			continue
		}
		if err := checkType(p, val); err != nil {
			return fmt.Errorf("%w: tool %q parameter %q: %v",
				ErrInvalidToolInput, info.Name, p.Name, err)
		}
	}

	return nil
}

func checkType(p ToolParameter, val any) error {
	switch p.Type {
	case "string":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		if p.Required && s == "" {
			return fmt.Errorf("must not be empty")
		}
		if len(p.Enum) > 0 {
			for _, e := range p.Enum {
				if s == e {
					return nil
				}
			}
			return fmt.Errorf("value %q not in %v", s, p.Enum)
		}
	case "integer":
		switch v := val.(type) {
		case int, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return fmt.Errorf("expected integer, got %T", val)
		}
	case "number":
		switch val.(type) {
		case int, int64, float64, float32:
		default:
			return fmt.Errorf("expected number, got %T", val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", val)
		}
	case "array":
		switch val.(type) {
		case []any, []string:
		default:
			return fmt.Errorf("expected array, got %T", val)
		}
	}
	return nil
}

// StringArg reads an optional string argument.
func StringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// IntArg reads an optional integer argument; JSON decoding yields float64.
func IntArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// StringSliceArg reads an optional string-array argument.
func StringSliceArg(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
