/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SearchQuery describes a search over the index.
// Text uses SQLite FTS5 syntax (terms, quoted phrases, AND/OR/NOT); empty Text
// lists sections in order. SetPath and Levels are optional filters.
type SearchQuery struct {
	Text    string
	SetPath string
	Levels  []int
	Limit   int
	Offset  int
}

// SearchResult is a single matching section.
// Snippet marks matches with [ ] when Text was given.
type SearchResult struct {
	SetID       string
	SetPath     string
	Position    int
	Header      string
	HeadingText string
	Level       int
	Snippet     string
}

// Search runs q against the index under root.
func Search(ctx context.Context, root string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("index root is required")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString("SELECT st.set_id, st.path, s.position, COALESCE(s.header,''), COALESCE(s.headline,''), s.level, snippet(fts_sections, -1, '[', ']', '...', 10)\n")
		sb.WriteString("FROM fts_sections JOIN sections s ON fts_sections.rowid = s.section_id\n")
		sb.WriteString("JOIN sets st ON st.set_id = s.set_id\n")
		sb.WriteString("WHERE fts_sections MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT st.set_id, st.path, s.position, COALESCE(s.header,''), COALESCE(s.headline,''), s.level, ''\n")
		sb.WriteString("FROM sections s JOIN sets st ON st.set_id = s.set_id\nWHERE 1=1\n")
	}
	if p := strings.TrimSpace(q.SetPath); p != "" {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		sb.WriteString(" AND st.path = ?\n")
		args = append(args, p)
	}
	if len(q.Levels) > 0 {
		sb.WriteString(" AND s.level IN (" + placeholders(len(q.Levels)) + ")\n")
		for _, lv := range q.Levels {
			args = append(args, lv)
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	sb.WriteString("ORDER BY st.path, s.position\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.SetID, &r.SetPath, &r.Position, &r.Header, &r.HeadingText, &r.Level, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
