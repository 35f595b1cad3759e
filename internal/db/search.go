package db

// SearchQuery describes one FT.SEARCH invocation.
type SearchQuery struct {
	Index string
	Query string
	Limit int

	// SortBy orders results by a sortable schema field when set.
	SortBy   string
	SortDesc bool

	// ReturnFields restricts returned hash fields; empty returns all.
	ReturnFields []string
}

// SearchEntry is one matched document: its key and returned hash fields.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// SearchResult is a parsed FT.SEARCH reply.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
