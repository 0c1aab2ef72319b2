package results

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/stellapse/prewhiten/internal/extract"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store records extraction runs and their frequency lists in sqlite.
type Store struct {
	*sql.DB
}

// OpenStore opens (or creates) the sqlite database at path and applies any
// pending schema migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st := &Store{db}
	if err := st.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(st.DB, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	m.Log = &migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// CreateRun inserts a new run for the given source dataset and returns its
// identifier.
func (st *Store) CreateRun(source string) (string, error) {
	runID := uuid.NewString()
	_, err := st.Exec(
		`INSERT INTO runs (run_id, source, started_at, state) VALUES (?, ?, ?, ?)`,
		runID, source, time.Now().UTC().Format(time.RFC3339), "running",
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return runID, nil
}

// FinishRun records the terminal state of a run ("stop-snr", "failed", ...).
func (st *Store) FinishRun(runID, state string) error {
	_, err := st.Exec(`UPDATE runs SET state = ? WHERE run_id = ?`, state, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordFrequencies stores a run's extracted frequencies in extraction
// order.
func (st *Store) RecordFrequencies(runID string, records []extract.FrequencyRecord) error {
	tx, err := st.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO frequencies (run_id, seq, frequency, amplitude, phase, snr) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(runID, i, rec.Frequency, rec.Amplitude, rec.Phase, rec.SNR); err != nil {
			return fmt.Errorf("record frequency %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// RunFrequencies returns a run's frequencies in extraction order.
func (st *Store) RunFrequencies(runID string) ([]extract.FrequencyRecord, error) {
	rows, err := st.Query(
		`SELECT frequency, amplitude, phase, snr FROM frequencies WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []extract.FrequencyRecord
	for rows.Next() {
		var rec extract.FrequencyRecord
		if err := rows.Scan(&rec.Frequency, &rec.Amplitude, &rec.Phase, &rec.SNR); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
