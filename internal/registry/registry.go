// Package registry indexes every audit module by platform and category so
// the CLI command tree can be generated from it.
package registry

import (
	"sort"
	"sync"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
)

// Placement locates a module in the command tree.
type Placement struct {
	Platform string
	Category string
}

// Entry pairs a module with its placement.
type Entry struct {
	Module    chain.Module
	Placement Placement
}

type moduleRegistry struct {
	mu        sync.RWMutex
	modules   map[string]Entry
	hierarchy map[string]map[string][]string // platform -> category -> names
}

var registry = &moduleRegistry{
	modules:   make(map[string]Entry),
	hierarchy: make(map[string]map[string][]string),
}

// Register adds a module under platform/category/name. Modules register
// themselves from init, so this is called before the CLI is built.
func Register(platform, category, name string, module chain.Module) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.modules[name] = Entry{
		Module:    module,
		Placement: Placement{Platform: platform, Category: category},
	}

	if _, ok := registry.hierarchy[platform]; !ok {
		registry.hierarchy[platform] = make(map[string][]string)
	}
	registry.hierarchy[platform][category] = append(registry.hierarchy[platform][category], name)
}

// GetModule returns the module registered under name.
func GetModule(name string) (chain.Module, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	entry, ok := registry.modules[name]
	if !ok {
		return chain.Module{}, false
	}
	return entry.Module, true
}

// GetEntry returns the full registry entry for name.
func GetEntry(name string) (Entry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	entry, ok := registry.modules[name]
	return entry, ok
}

// GetHierarchy returns a copy of the platform -> category -> names tree with
// module names sorted for stable command generation.
func GetHierarchy() map[string]map[string][]string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	result := make(map[string]map[string][]string, len(registry.hierarchy))
	for platform, categories := range registry.hierarchy {
		result[platform] = make(map[string][]string, len(categories))
		for category, names := range categories {
			copied := append([]string{}, names...)
			sort.Strings(copied)
			result[platform][category] = copied
		}
	}
	return result
}

// ModuleNames returns every registered module name, sorted.
func ModuleNames() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.modules))
	for name := range registry.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
