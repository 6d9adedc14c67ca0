// Copyright 2026 Scott Mercer
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stats keeps a lightweight audit database of performed
// computations. It records per-request metadata (sizes, threshold,
// result share, processing time) so operators can see what the service
// has been doing; the uploaded datasets themselves are deliberately
// never written anywhere.
package stats

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

type Database struct {
	db *sql.DB
}

func (database *Database) createRequestStatsTable() error {
	_, err := database.db.Exec(
		"CREATE TABLE request_stats (" +
			"id TEXT PRIMARY KEY NOT NULL, " +
			"datetime INTEGER NOT NULL, " +
			"operation TEXT NOT NULL, " +
			"dataset TEXT NOT NULL, " +
			"numRows INTEGER NOT NULL, " +
			"numGroups INTEGER NOT NULL, " +
			"groupKey TEXT NOT NULL, " +
			"threshold FLOAT NOT NULL, " +
			"coveredUsage FLOAT NOT NULL, " +
			"procTime FLOAT NOT NULL" +
			")",
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Info().Msg("created table `request_stats`")
	return nil
}

func (database *Database) tableExists(tn string) (bool, error) {
	ans := database.db.QueryRow(
		fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s'", tn))
	var nm sql.NullString
	err := ans.Scan(&nm)
	if err == sql.ErrNoRows {
		return false, nil

	} else if err != nil {
		return false, fmt.Errorf("failed to determine existence of table %s: %w", tn, err)
	}
	return true, nil
}

func (database *Database) Init() error {
	ex, err := database.tableExists("request_stats")
	if err != nil {
		return fmt.Errorf("failed to init table request_stats: %w", err)
	}
	if ex {
		log.Info().Str("table", "request_stats").Msg("table already exists")

	} else {
		if err := database.createRequestStatsTable(); err != nil {
			return fmt.Errorf("failed to create table request_stats: %w", err)
		}
	}
	return nil
}

func (database *Database) AddRecord(rec Record) error {
	_, err := database.db.Exec(
		"INSERT OR REPLACE INTO request_stats "+
			"(id, datetime, operation, dataset, numRows, numGroups, groupKey, threshold, coveredUsage, procTime) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID,
		rec.Datetime,
		rec.Operation,
		rec.Dataset,
		rec.NumRows,
		rec.NumGroups,
		rec.GroupKey,
		rec.Threshold,
		rec.CoveredUsage,
		rec.ProcTime,
	)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}
	return nil
}

// GetRecords loads audit records matching the filter, most recent
// first. A non-positive limit means no limit.
func (database *Database) GetRecords(filter ListFilter, limit int) ([]Record, error) {
	query := "SELECT id, datetime, operation, dataset, numRows, numGroups, groupKey, threshold, coveredUsage, procTime " +
		"FROM request_stats WHERE %s ORDER BY datetime DESC"
	whereChunks := make([]string, 0, 3)
	whereArgs := make([]any, 0, 3)
	whereChunks = append(whereChunks, "1 = 1")
	if filter.Operation != nil {
		whereChunks = append(whereChunks, "operation = ?")
		whereArgs = append(whereArgs, *filter.Operation)
	}
	if filter.Grouped != nil {
		if *filter.Grouped {
			whereChunks = append(whereChunks, "groupKey != 'none'")

		} else {
			whereChunks = append(whereChunks, "groupKey = 'none'")
		}
	}
	if limit > 0 {
		query += " LIMIT ?"
		whereArgs = append(whereArgs, limit)
	}

	rows, err := database.db.Query(
		fmt.Sprintf(query, strings.Join(whereChunks, " AND ")), whereArgs...)
	if err != nil {
		return []Record{}, fmt.Errorf("failed to fetch records: %w", err)
	}
	ans := make([]Record, 0, 50)
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.ID,
			&rec.Datetime,
			&rec.Operation,
			&rec.Dataset,
			&rec.NumRows,
			&rec.NumGroups,
			&rec.GroupKey,
			&rec.Threshold,
			&rec.CoveredUsage,
			&rec.ProcTime,
		)
		if err != nil {
			return []Record{}, fmt.Errorf("failed to fetch records: %w", err)
		}
		ans = append(ans, rec)
	}
	return ans, nil
}

func (database *Database) Close() error {
	return database.db.Close()
}

func NewDatabase(path string) (*Database, error) {
	dbConn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}
	return &Database{db: dbConn}, nil
}
