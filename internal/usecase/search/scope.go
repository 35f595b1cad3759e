package search

import "github.com/kailas-cloud/shopsearch/internal/config"

// Scope is one of the product fields or taxonomies the gatherer may query.
type Scope string

// Gather scopes, in the fixed insertion order that governs tie-breaking.
const (
	ScopeTitle      Scope = "title"
	ScopeSKU        Scope = "sku"
	ScopeContent    Scope = "content"
	ScopeExcerpt    Scope = "excerpt"
	ScopeCategories Scope = "categories"
	ScopeTags       Scope = "tags"
	ScopeAttributes Scope = "attributes"
)

// scopeOrder fixes the candidate insertion order. Concurrent lookups buffer
// into positional slots which are merged in this order at the join.
var scopeOrder = []Scope{
	ScopeTitle,
	ScopeSKU,
	ScopeContent,
	ScopeExcerpt,
	ScopeCategories,
	ScopeTags,
	ScopeAttributes,
}

// enabled reports whether the scope is switched on in the options.
func (s Scope) enabled(cfg *config.SearchConfig) bool {
	switch s {
	case ScopeTitle:
		return cfg.SearchInTitle
	case ScopeSKU:
		return cfg.SearchInSKU
	case ScopeContent:
		return cfg.SearchInContent
	case ScopeExcerpt:
		return cfg.SearchInExcerpt
	case ScopeCategories:
		return cfg.SearchInCategories
	case ScopeTags:
		return cfg.SearchInTags
	case ScopeAttributes:
		return cfg.SearchInAttributes
	}
	return false
}
