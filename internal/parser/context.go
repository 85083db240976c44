package parser

import "github.com/nanoc-lang/nanoc/internal/syntax"

// ParseContext owns the mutable side tables the grammar is sensitive to:
// the typedef name set, the struct/union/enum tag sets, and a scope-depth
// counter. There is no per-scope layering —
// typedefs declared at inner scope remain globally visible because this
// set is only ever used as a type-vs-identifier oracle, never for name
// resolution.
type ParseContext struct {
	typedefs   map[string]bool
	structTags map[string]bool
	unionTags  map[string]bool
	enumTags   map[string]bool
	scopeDepth int
}

// NewParseContext returns an empty context.
func NewParseContext() *ParseContext {
	return &ParseContext{
		typedefs:   make(map[string]bool),
		structTags: make(map[string]bool),
		unionTags:  make(map[string]bool),
		enumTags:   make(map[string]bool),
	}
}

// AddTypedef registers name as a type name. The typedef set is
// monotonically growing — there is no RemoveTypedef.
func (c *ParseContext) AddTypedef(name string) {
	c.typedefs[name] = true
}

// IsTypeName is the typedef oracle: an identifier is a type
// name if it was registered by a prior typedef, or if it matches the
// compile-time builtin-type table.
func (c *ParseContext) IsTypeName(name string) bool {
	return c.typedefs[name] || syntax.IsBuiltinTypeName(name)
}

func (c *ParseContext) AddStructTag(name string) { c.structTags[name] = true }
func (c *ParseContext) AddUnionTag(name string)  { c.unionTags[name] = true }
func (c *ParseContext) AddEnumTag(name string)   { c.enumTags[name] = true }

// PushScope/PopScope track nesting depth only; see the type doc for why
// the symbol sets themselves are not scope-layered.
func (c *ParseContext) PushScope() { c.scopeDepth++ }

func (c *ParseContext) PopScope() {
	if c.scopeDepth > 0 {
		c.scopeDepth--
	}
}

// ScopeDepth returns the current nesting depth (0 at file scope).
func (c *ParseContext) ScopeDepth() int { return c.scopeDepth }
