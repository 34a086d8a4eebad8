package db

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ad/go-telegram-poster/internal/models"
)

const catalogKey = "catalog"

// CatalogRepository stores the url and label lists as one JSON document,
// rewritten in full on every save.
type CatalogRepository struct {
	queue *DBQueue
}

func NewCatalogRepository(queue *DBQueue) *CatalogRepository {
	return &CatalogRepository{queue: queue}
}

func (r *CatalogRepository) Load() (*models.CatalogDocument, error) {
	doc := &models.CatalogDocument{
		URLs:   []string{},
		Labels: []string{},
	}

	var value string
	err := r.queue.DB().QueryRow(`SELECT value FROM documents WHERE key = ?`, catalogKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(value), doc); err != nil {
		return nil, err
	}
	if doc.URLs == nil {
		doc.URLs = []string{}
	}
	if doc.Labels == nil {
		doc.Labels = []string{}
	}
	return doc, nil
}

func (r *CatalogRepository) Save(doc *models.CatalogDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT OR REPLACE INTO documents (key, value) VALUES (?, ?)
		`, catalogKey, string(data))
		return nil, err
	})
	return err
}
