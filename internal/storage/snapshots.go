/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"resumestudio/internal/domain"
	"resumestudio/internal/template"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(template_id, ts, snapshot) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, snapshot FROM snapshots WHERE template_id = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, snapshot FROM snapshots WHERE template_id = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE template_id = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE template_id = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// SnapshotRecord is one stored scene snapshot with its capture time.
type SnapshotRecord struct {
	TS       time.Time
	Snapshot domain.Snapshot
}

// SaveSnapshot persists a scene snapshot for the given template id with
// a timestamp. It opens the workspace's index database if needed and
// inserts the record.
func SaveSnapshot(ctx context.Context, ws *WorkspaceHandle, templateID string, snap domain.Snapshot, ts time.Time) error {
	if ws == nil {
		return errors.New("nil WorkspaceHandle")
	}
	blob, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	db, err := InitOrOpenIndex(ws.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, templateID, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LatestSnapshot returns the most recent snapshot for the template, or
// ok=false when none is stored. The snapshot is run through sanitation
// on the way out; stored rows may predate the current baseline rule.
func LatestSnapshot(ctx context.Context, ws *WorkspaceHandle, templateID string) (domain.Snapshot, time.Time, bool, error) {
	if ws == nil {
		return domain.Snapshot{}, time.Time{}, false, errors.New("nil WorkspaceHandle")
	}
	db, err := InitOrOpenIndex(ws.Root)
	if err != nil {
		return domain.Snapshot{}, time.Time{}, false, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL, templateID).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, time.Time{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, time.Time{}, false, err
	}
	snap, err := template.ParseSnapshot(blob)
	if err != nil {
		return domain.Snapshot{}, time.Time{}, false, err
	}
	ts, terr := time.Parse(time.RFC3339Nano, tsStr)
	if terr != nil {
		return snap, time.Time{}, true, nil
	}
	return snap, ts, true, nil
}

// ListSnapshots returns up to limit most recent snapshots for the
// template, newest first.
func ListSnapshots(ctx context.Context, ws *WorkspaceHandle, templateID string, limit int) ([]SnapshotRecord, error) {
	if ws == nil {
		return nil, errors.New("nil WorkspaceHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ws.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, templateID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []SnapshotRecord
	for rows.Next() {
		var tsStr string
		var blob []byte
		if err := rows.Scan(&tsStr, &blob); err != nil {
			return nil, err
		}
		snap, err := template.ParseSnapshot(blob)
		if err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, SnapshotRecord{TS: ts, Snapshot: snap})
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots for the template
// and deletes older ones. Returns the number of deleted rows.
func PruneOldSnapshots(ctx context.Context, ws *WorkspaceHandle, templateID string, keepLast int) (int64, error) {
	if ws == nil {
		return 0, errors.New("nil WorkspaceHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ws.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, templateID, templateID, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
