package i18n

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const defaultTranslationTable = "translations"

// SQLSource reads entries from a table with columns
// (domain, locale, msg_key, message).
type SQLSource struct {
	DB    *sql.DB
	Table string
}

func (s SQLSource) query() string {
	table := s.Table
	if table == "" {
		table = defaultTranslationTable
	}
	return fmt.Sprintf("SELECT domain, locale, msg_key, message FROM %s", pq.QuoteIdentifier(table))
}

func (s SQLSource) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Domain, &e.Locale, &e.Key, &e.Message); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
