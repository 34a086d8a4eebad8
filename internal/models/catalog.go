package models

// CatalogEntry is one curated URL or button label. The ID is a surrogate
// key assigned when the catalog is loaded; duplicate values are allowed,
// edits and deletes always address an entry by ID.
type CatalogEntry struct {
	ID    int64
	Value string
}

// CatalogDocument is the persisted shape of the catalog: two independent
// ordered value sequences, rewritten in full on every mutation.
type CatalogDocument struct {
	URLs   []string `json:"urls"`
	Labels []string `json:"labels"`
}
