// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

var papersSchema = []string{
	`CREATE TABLE IF NOT EXISTS papers (
		position INTEGER PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		abstract TEXT NOT NULL,
		authors TEXT NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_url ON papers(url)`,
}

// writeSQLite stores papers in a papers table at path, one row per record.
// Authors are kept as a JSON array; position is the index in the harvested
// sequence, so a url seen twice is stored twice.
func writeSQLite(path string, papers []types.Paper) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, q := range papersSchema {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO papers (url, position, title, abstract, authors, date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authors := p.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, err := json.Marshal(authors)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding authors for %s: %w", p.URL, err)
		}
		if _, err := stmt.Exec(p.URL, i, p.Title, p.Abstract, string(authorsJSON), p.Date); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting %s: %w", p.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// ReadSQLite loads papers from a database written by Save, in harvest order.
func ReadSQLite(path string) ([]types.Paper, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT url, title, abstract, authors, date FROM papers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authors string
		if err := rows.Scan(&p.URL, &p.Title, &p.Abstract, &authors, &p.Date); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", p.URL, err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
