package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// OpenSQLite opens (creating if needed) a snapshot database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the snapshot schema. Versioned with PRAGMA user_version.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS applications (
  id INTEGER PRIMARY KEY,
  date_applied TEXT NOT NULL,
  company TEXT NOT NULL,
  position TEXT NOT NULL,
  job_board TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  resume TEXT NOT NULL DEFAULT '',
  cover_letter TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  status_list TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS status_history (
  application_id INTEGER NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  status TEXT NOT NULL,
  PRIMARY KEY (application_id, seq)
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_applications_status
ON applications(status);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// WriteSnapshot replaces the database contents with jobs in one transaction.
func WriteSnapshot(ctx context.Context, db *sql.DB, jobs []domain.Job) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM status_history;`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM applications;`); err != nil {
		return fmt.Errorf("clear applications: %w", err)
	}

	appStmt, err := tx.PrepareContext(ctx, `
INSERT INTO applications(id, date_applied, company, position, job_board, website, resume, cover_letter, status, status_list)
VALUES(?,?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return err
	}
	defer appStmt.Close()

	histStmt, err := tx.PrepareContext(ctx, `
INSERT INTO status_history(application_id, seq, status)
VALUES(?,?,?);`)
	if err != nil {
		return err
	}
	defer histStmt.Close()

	for _, j := range jobs {
		if _, err := appStmt.ExecContext(ctx,
			j.ID, j.Date(), j.Company, j.Position, j.JobBoard, j.Website,
			j.Resume, j.CoverLetter, string(j.Current()), j.History(),
		); err != nil {
			return fmt.Errorf("insert application %d: %w", j.ID, err)
		}
		for seq, s := range j.StatusList {
			if _, err := histStmt.ExecContext(ctx, j.ID, seq+1, string(s)); err != nil {
				return fmt.Errorf("insert history %d/%d: %w", j.ID, seq+1, err)
			}
		}
	}
	return tx.Commit()
}

// ToSQLite writes a full snapshot of jobs to the database file at path and
// returns how many jobs sit at each current status.
func ToSQLite(ctx context.Context, path string, jobs []domain.Job, log *zap.Logger) ([]StatusCount, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	if err := WriteSnapshot(ctx, db, jobs); err != nil {
		return nil, err
	}
	counts, err := CountByStatus(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("summarise %s: %w", path, err)
	}
	log.Named("export").Info("sqlite snapshot written", zap.String("path", path), zap.Int("jobs", len(jobs)))
	return counts, nil
}

// StatusCount is one row of CountByStatus.
type StatusCount struct {
	Status domain.Status
	Count  int
}

// CountByStatus summarises current statuses in a snapshot database.
func CountByStatus(ctx context.Context, db *sql.DB) ([]StatusCount, error) {
	rows, err := db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM applications
GROUP BY status
ORDER BY COUNT(*) DESC, status ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		var s string
		if err := rows.Scan(&s, &sc.Count); err != nil {
			return nil, err
		}
		sc.Status = domain.Status(s)
		out = append(out, sc)
	}
	return out, rows.Err()
}
