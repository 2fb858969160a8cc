package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matchsight/matchsight/internal/profile"
)

// SaveProfile stores a profile snapshot keyed by username. When the username
// already exists the snapshot is replaced only if overwrite is set; the
// return value reports whether a row was written.
func (db *DB) SaveProfile(ctx context.Context, p *profile.Profile, overwrite bool) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("failed to encode profile %s: %w", p.Username, err)
	}

	now := time.Now()
	if !overwrite {
		var existing int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM profiles WHERE username = ?`, p.Username,
		).Scan(&existing)
		if err != nil {
			return false, err
		}
		if existing > 0 {
			return false, nil
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, match_percent, question_count, data, fetched_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			match_percent = excluded.match_percent,
			question_count = excluded.question_count,
			data = excluded.data,
			fetched_at = excluded.fetched_at
	`, uuid.New().String(), p.Username, p.MatchPercent, len(p.Questions), string(data), now, now)
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetProfile retrieves a stored snapshot by username. Returns nil when the
// username is unknown.
func (db *DB) GetProfile(ctx context.Context, username string) (*profile.Profile, error) {
	var data string
	err := db.QueryRowContext(ctx,
		`SELECT data FROM profiles WHERE username = ?`, username,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", username, err)
	}
	return &p, nil
}

// ListProfiles returns summary rows for every stored snapshot, ordered by
// username.
func (db *DB) ListProfiles(ctx context.Context) ([]ProfileSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, username, match_percent, question_count, fetched_at
		FROM profiles ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ProfileSummary
	for rows.Next() {
		var s ProfileSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.MatchPercent, &s.QuestionCount, &s.FetchedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// LoadProfiles returns every stored snapshot decoded, ordered by username so
// corpus builds are deterministic.
func (db *DB) LoadProfiles(ctx context.Context) ([]profile.Profile, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT username, data FROM profiles ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		var username, data string
		if err := rows.Scan(&username, &data); err != nil {
			return nil, err
		}
		var p profile.Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to decode profile %s: %w", username, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// CountProfiles returns the number of stored snapshots.
func (db *DB) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

// DeleteProfile removes a stored snapshot. Unknown usernames are not an
// error; the return value reports whether a row was removed.
func (db *DB) DeleteProfile(ctx context.Context, username string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE username = ?`, username)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// SaveBackup stores an account's question backup, replacing any previous
// backup for the same account.
func (db *DB) SaveBackup(ctx context.Context, account string, role Role, b *profile.AccountBackup) error {
	if !role.Valid() {
		return fmt.Errorf("invalid backup role: %s", role)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode backup for %s: %w", account, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO backups (id, account, role, data, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			role = excluded.role,
			data = excluded.data,
			saved_at = excluded.saved_at
	`, uuid.New().String(), account, string(role), string(data), time.Now())
	return err
}

// GetBackup retrieves the most recent backup stored for the given role.
// Returns nil when no backup for that role exists.
func (db *DB) GetBackup(ctx context.Context, role Role) (*profile.AccountBackup, error) {
	var data string
	err := db.QueryRowContext(ctx, `
		SELECT data FROM backups WHERE role = ?
		ORDER BY saved_at DESC LIMIT 1
	`, string(role)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var b profile.AccountBackup
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("failed to decode %s backup: %w", role, err)
	}
	return &b, nil
}

// ListBackups returns info rows for every stored backup.
func (db *DB) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, account, role, saved_at FROM backups ORDER BY account ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []BackupInfo
	for rows.Next() {
		var info BackupInfo
		var role string
		if err := rows.Scan(&info.ID, &info.Account, &role, &info.SavedAt); err != nil {
			return nil, err
		}
		info.Role = Role(role)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// RecordImport logs an import run for later inspection.
func (db *DB) RecordImport(ctx context.Context, source, kind string, imported, skipped int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO import_log (id, source, kind, imported, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), source, kind, imported, skipped, time.Now())
	return err
}

// ListImports returns the import log, most recent runs first.
func (db *DB) ListImports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, source, kind, imported, skipped, created_at
		FROM import_log ORDER BY created_at DESC, source ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.Kind, &r.Imported, &r.Skipped, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
