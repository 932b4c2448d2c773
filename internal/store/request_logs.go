// ABOUTME: Request log storage operations.
// ABOUTME: Handles inserting and querying HTTP request logs.

package store

import "time"

// RequestLog represents an HTTP request log entry
type RequestLog struct {
	ID         int64
	Timestamp  time.Time
	Surface    string // which API surface handled the request, e.g. "events"
	Method     string
	Path       string
	StatusCode int
	DurationMs int
	Error      string
}

// LogRequest inserts a request log entry
func (s *Store) LogRequest(log *RequestLog) error {
	_, err := s.db.Exec(`
		INSERT INTO request_logs (surface, method, path, status_code, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, log.Surface, log.Method, log.Path, log.StatusCode, log.DurationMs, log.Error)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit      int
	Offset     int
	Surface    string
	StatusCode int
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Store) GetRequestLogs(q *RequestLogQuery) ([]*RequestLog, error) {
	query := `SELECT id, timestamp, COALESCE(surface, ''), method, path, status_code,
	          duration_ms, COALESCE(error, '')
	          FROM request_logs WHERE 1=1`
	args := []any{}

	if q.Surface != "" {
		query += " AND surface = ?"
		args = append(args, q.Surface)
	}
	if q.StatusCode > 0 {
		query += " AND status_code = ?"
		args = append(args, q.StatusCode)
	}

	query += " ORDER BY timestamp DESC"
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if q.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		l := &RequestLog{}
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Surface, &l.Method, &l.Path,
			&l.StatusCode, &l.DurationMs, &l.Error); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// RequestLogStats represents aggregate statistics
type RequestLogStats struct {
	TotalRequests int
	ErrorRequests int
	AvgDurationMs int
}

// GetRequestLogStats computes aggregate request statistics
func (s *Store) GetRequestLogStats() (*RequestLogStats, error) {
	stats := &RequestLogStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0),
		       COALESCE(CAST(AVG(duration_ms) AS INTEGER), 0)
		FROM request_logs
	`).Scan(&stats.TotalRequests, &stats.ErrorRequests, &stats.AvgDurationMs)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
