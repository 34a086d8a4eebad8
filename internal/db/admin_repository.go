package db

import (
	"database/sql"
	"encoding/json"
	"errors"
)

const adminsKey = "admins"

// AdminRepository stores the admin identity list as one JSON document,
// rewritten in full on every save.
type AdminRepository struct {
	queue *DBQueue
}

func NewAdminRepository(queue *DBQueue) *AdminRepository {
	return &AdminRepository{queue: queue}
}

func (r *AdminRepository) Load() ([]string, error) {
	var value string
	err := r.queue.DB().QueryRow(`SELECT value FROM documents WHERE key = ?`, adminsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *AdminRepository) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	_, err = r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT OR REPLACE INTO documents (key, value) VALUES (?, ?)
		`, adminsKey, string(data))
		return nil, err
	})
	return err
}
