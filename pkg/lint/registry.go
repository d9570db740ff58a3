package lint

import (
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// Rule Registry
// =============================================================================

// registry is the global rule registry. Rules self-register via
// init() functions in their packages.
type registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef
}

var globalRegistry = &registry{
	rules: make(map[string]RuleDef),
}

// Register adds a rule to the global registry. Typically called from
// init() functions in rule packages. Panics on a duplicate or
// reserved ID, which indicates a programming error.
func Register(def RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if def.ID == "" {
		panic("lint: cannot register rule with empty ID")
	}
	if def.ID == EngineRuleID {
		panic(fmt.Sprintf("lint: rule ID %q is reserved", EngineRuleID))
	}
	if _, exists := globalRegistry.rules[def.ID]; exists {
		panic(fmt.Sprintf("lint: rule %s already registered", def.ID))
	}
	if def.Check == nil {
		panic(fmt.Sprintf("lint: rule %s has no check function", def.ID))
	}

	globalRegistry.rules[def.ID] = def
}

// GetAll returns all registered rules sorted by ID. The order is the
// analyzer's execution order, so results do not depend on
// registration order.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, r := range globalRegistry.rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	r, ok := globalRegistry.rules[id]
	return r, ok
}

// GetByGroup returns all rules in a group, sorted by ID.
func GetByGroup(group string) []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	var rules []RuleDef
	for _, r := range globalRegistry.rules {
		if r.Group == group {
			rules = append(rules, r)
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// Groups returns the distinct rule groups, sorted.
func Groups() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range globalRegistry.rules {
		seen[r.Group] = struct{}{}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Only for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
