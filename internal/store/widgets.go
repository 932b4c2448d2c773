// ABOUTME: Persistence for widget setups.
// ABOUTME: Each widget is a uuid keyed row holding its encoded settings token.

package store

import "time"

// Widget is one saved widget setup. The settings token is stored as-is; the
// store never decodes credentials.
type Widget struct {
	ID          string
	ConfigToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateWidget inserts a widget row.
func (s *Store) CreateWidget(w *Widget) error {
	_, err := s.db.Exec(`
		INSERT INTO widgets (id, config_token) VALUES (?, ?)
	`, w.ID, w.ConfigToken)
	return err
}

// GetWidget retrieves a widget by id.
func (s *Store) GetWidget(id string) (*Widget, error) {
	w := &Widget{}
	err := s.db.QueryRow(`
		SELECT id, config_token, created_at, updated_at FROM widgets WHERE id = ?
	`, id).Scan(&w.ID, &w.ConfigToken, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWidget replaces a widget's settings token.
func (s *Store) UpdateWidget(id, configToken string) error {
	_, err := s.db.Exec(`
		UPDATE widgets SET config_token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, configToken, id)
	return err
}

// DeleteWidget removes a widget row.
func (s *Store) DeleteWidget(id string) error {
	_, err := s.db.Exec(`DELETE FROM widgets WHERE id = ?`, id)
	return err
}

// ListWidgets returns saved widgets, newest first.
func (s *Store) ListWidgets(limit int) ([]*Widget, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, config_token, created_at, updated_at
		FROM widgets ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []*Widget
	for rows.Next() {
		w := &Widget{}
		if err := rows.Scan(&w.ID, &w.ConfigToken, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}
