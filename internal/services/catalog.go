package services

import (
	"fmt"
	"sync"

	"github.com/ad/go-telegram-poster/internal/db"
	"github.com/ad/go-telegram-poster/internal/models"
)

// Catalog is the curated url and label lists. Entries keep insertion order
// and carry surrogate ids so edits and deletes stay unambiguous even when
// the same value appears twice. The persisted document stores only the
// ordered values; ids are reassigned on load.
type Catalog struct {
	mu     sync.Mutex
	urls   []models.CatalogEntry
	labels []models.CatalogEntry
	nextID int64
	repo   *db.CatalogRepository
}

func NewCatalog(repo *db.CatalogRepository) (*Catalog, error) {
	doc, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c := &Catalog{nextID: 1, repo: repo}
	for _, v := range doc.URLs {
		c.urls = append(c.urls, models.CatalogEntry{ID: c.nextID, Value: v})
		c.nextID++
	}
	for _, v := range doc.Labels {
		c.labels = append(c.labels, models.CatalogEntry{ID: c.nextID, Value: v})
		c.nextID++
	}
	return c, nil
}

func (c *Catalog) URLs() []models.CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CatalogEntry(nil), c.urls...)
}

func (c *Catalog) Labels() []models.CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CatalogEntry(nil), c.labels...)
}

func (c *Catalog) URLByID(id int64) (models.CatalogEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return findEntry(c.urls, id)
}

func (c *Catalog) LabelByID(id int64) (models.CatalogEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return findEntry(c.labels, id)
}

// AddURL appends a url. Duplicate values are allowed. A persistence
// failure is returned but the in-memory list keeps the entry.
func (c *Catalog) AddURL(value string) (models.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := models.CatalogEntry{ID: c.nextID, Value: value}
	c.nextID++
	c.urls = append(c.urls, entry)
	return entry, c.persistLocked()
}

func (c *Catalog) AddLabel(value string) (models.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := models.CatalogEntry{ID: c.nextID, Value: value}
	c.nextID++
	c.labels = append(c.labels, entry)
	return entry, c.persistLocked()
}

// ReplaceURL swaps the value of an entry in place, preserving its position.
func (c *Catalog) ReplaceURL(id int64, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.urls {
		if c.urls[i].ID == id {
			c.urls[i].Value = value
			return c.persistLocked()
		}
	}
	return models.ErrNotFound
}

func (c *Catalog) ReplaceLabel(id int64, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.labels {
		if c.labels[i].ID == id {
			c.labels[i].Value = value
			return c.persistLocked()
		}
	}
	return models.ErrNotFound
}

func (c *Catalog) DeleteURL(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.urls {
		if c.urls[i].ID == id {
			c.urls = append(c.urls[:i], c.urls[i+1:]...)
			return c.persistLocked()
		}
	}
	return models.ErrNotFound
}

func (c *Catalog) DeleteLabel(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.labels {
		if c.labels[i].ID == id {
			c.labels = append(c.labels[:i], c.labels[i+1:]...)
			return c.persistLocked()
		}
	}
	return models.ErrNotFound
}

func (c *Catalog) persistLocked() error {
	doc := &models.CatalogDocument{
		URLs:   make([]string, len(c.urls)),
		Labels: make([]string, len(c.labels)),
	}
	for i, e := range c.urls {
		doc.URLs[i] = e.Value
	}
	for i, e := range c.labels {
		doc.Labels[i] = e.Value
	}
	if err := c.repo.Save(doc); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return nil
}

func findEntry(entries []models.CatalogEntry, id int64) (models.CatalogEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.CatalogEntry{}, false
}
