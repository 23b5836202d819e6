package db

import (
	"context"
	"fmt"
	"time"
)

// TriageLookup is the running count of one symptom/priority outcome.
type TriageLookup struct {
	Symptom    string
	Priority   string
	Count      int64
	LastSeenAt time.Time
}

// IncrementTriageLookup upserts a triage lookup count.
func (d *DB) IncrementTriageLookup(ctx context.Context, symptom, priority string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO triage_lookups (symptom, priority, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (symptom, priority) DO UPDATE
		SET count = triage_lookups.count + 1, last_seen_at = NOW()
	`, symptom, priority)
	if err != nil {
		return fmt.Errorf("increment triage lookup %s/%s: %w", symptom, priority, err)
	}
	return nil
}

// GetAllTriageLookups returns every triage lookup row for metrics export.
func (d *DB) GetAllTriageLookups(ctx context.Context) ([]TriageLookup, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT symptom, priority, count, last_seen_at
		FROM triage_lookups
		ORDER BY symptom, priority
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []TriageLookup
	for rows.Next() {
		var l TriageLookup
		if err := rows.Scan(&l.Symptom, &l.Priority, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
