package database

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4/database/multistmt"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var embedded embed.FS

// EmbeddedMigrations returns the migration set compiled into the binary.
func EmbeddedMigrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Apply loads the migration set from dir, or the embedded set when dir is
// empty, and runs it against db.
func Apply(ctx context.Context, db *sqlx.DB, dir string, log *zap.Logger) (Report, error) {
	fsys := EmbeddedMigrations()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	migs, err := LoadMigrations(fsys)
	if err != nil {
		return Report{}, err
	}
	return NewMigrator(NewSQLMigrationStore(db), log).Run(ctx, migs)
}

// Migration is one up file of the schema history.
type Migration struct {
	Filename   string
	Statements []string
	Checksum   string
}

// maxMigrationSize bounds a single migration file.
const maxMigrationSize = 10 << 20

// LoadMigrations reads the NNN_name.up.sql files at the root of fsys through
// the golang-migrate iofs source, in version order. Files that do not follow
// the naming scheme are ignored.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migrate: open source: %w", err)
	}
	defer src.Close()

	var out []Migration
	version, err := src.First()
	for err == nil {
		mig, rerr := readUp(src, version)
		if rerr != nil {
			return nil, rerr
		}
		if mig != nil {
			out = append(out, *mig)
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("migrate: walk versions: %w", err)
	}
	return out, nil
}

// readUp returns nil when the version only has a down file.
func readUp(src source.Driver, version uint) (*Migration, error) {
	rc, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("migrate: read version %d: %w", version, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("migrate: read version %d: %w", version, err)
	}
	name := fmt.Sprintf("%03d_%s.up.sql", version, identifier)
	stmts, err := SplitStatements(body)
	if err != nil {
		return nil, fmt.Errorf("migrate: split %s: %w", name, err)
	}
	sum := sha256.Sum256(body)
	return &Migration{Filename: name, Statements: stmts, Checksum: hex.EncodeToString(sum[:])}, nil
}

// SplitStatements cuts a file on ";" with golang-migrate's multistmt parser.
// Comment-only lines and the trailing delimiter are dropped.
func SplitStatements(body []byte) ([]string, error) {
	var stmts []string
	err := multistmt.Parse(bytes.NewReader(body), []byte(";"), maxMigrationSize, func(chunk []byte) bool {
		if stmt := cleanStatement(string(chunk)); stmt != "" {
			stmts = append(stmts, stmt)
		}
		return true
	})
	return stmts, err
}

func cleanStatement(chunk string) string {
	var b strings.Builder
	for _, line := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.String()), ";"))
}

// IsBenignMigrationError reports whether err only says the object already
// exists, which happens when a file is re-applied.
func IsBenignMigrationError(err error) bool {
	switch ErrorNumber(err) {
	case ErrNumTableExists, ErrNumDupEntry, ErrNumDupKeyName, ErrNumDupColumn:
		return true
	}
	return false
}

// MigrationStore is the persistence the runner needs.
type MigrationStore interface {
	EnsureTable(ctx context.Context) error
	Applied(ctx context.Context) (map[string]string, error)
	Exec(ctx context.Context, stmt string) error
	Record(ctx context.Context, filename, checksum string, took time.Duration) error
}

// Report summarises one run.
type Report struct {
	Applied []string
	Skipped []string
}

// Migrator applies migrations idempotently.
type Migrator struct {
	store MigrationStore
	log   *zap.Logger
}

// NewMigrator returns a runner over store. A nil log discards output.
func NewMigrator(store MigrationStore, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{store: store, log: log}
}

// Run applies every migration whose filename is not yet recorded.  Files
// already recorded are skipped; a changed checksum is only reported.
func (m *Migrator) Run(ctx context.Context, migrations []Migration) (Report, error) {
	var rep Report
	if err := m.store.EnsureTable(ctx); err != nil {
		return rep, fmt.Errorf("migrate: ensure bookkeeping table: %w", err)
	}
	applied, err := m.store.Applied(ctx)
	if err != nil {
		return rep, fmt.Errorf("migrate: load applied: %w", err)
	}

	for _, mig := range migrations {
		if sum, ok := applied[mig.Filename]; ok {
			if sum != mig.Checksum {
				m.log.Warn("applied migration changed on disk", zap.String("file", mig.Filename))
			}
			rep.Skipped = append(rep.Skipped, mig.Filename)
			continue
		}

		start := time.Now()
		for i, stmt := range mig.Statements {
			if err := m.store.Exec(ctx, stmt); err != nil {
				if IsBenignMigrationError(err) {
					m.log.Info("statement already applied",
						zap.String("file", mig.Filename), zap.Int("statement", i+1), zap.Error(err))
					continue
				}
				return rep, fmt.Errorf("migrate: %s statement %d: %w", mig.Filename, i+1, err)
			}
		}
		took := time.Since(start)
		if err := m.store.Record(ctx, mig.Filename, mig.Checksum, took); err != nil {
			return rep, fmt.Errorf("migrate: record %s: %w", mig.Filename, err)
		}
		m.log.Info("migration applied", zap.String("file", mig.Filename), zap.Duration("took", took))
		rep.Applied = append(rep.Applied, mig.Filename)
	}
	return rep, nil
}

// SQLMigrationStore keeps bookkeeping in the schema_migrations table.
type SQLMigrationStore struct {
	db *sqlx.DB
}

// NewSQLMigrationStore keeps bookkeeping in db.
func NewSQLMigrationStore(db *sqlx.DB) *SQLMigrationStore { return &SQLMigrationStore{db: db} }

// EnsureTable creates schema_migrations when missing.
func (s *SQLMigrationStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename     VARCHAR(255) NOT NULL PRIMARY KEY,
		checksum     CHAR(64)     NOT NULL,
		execution_ms BIGINT       NOT NULL,
		applied_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	return err
}

// Applied maps each recorded filename to its checksum.
func (s *SQLMigrationStore) Applied(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Filename string `db:"filename"`
		Checksum string `db:"checksum"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT filename, checksum FROM schema_migrations`); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Filename] = r.Checksum
	}
	return out, nil
}

// Exec runs one statement outside a transaction; MySQL DDL commits implicitly.
func (s *SQLMigrationStore) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Record upserts the bookkeeping row for filename.
func (s *SQLMigrationStore) Record(ctx context.Context, filename, checksum string, took time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schema_migrations (filename, checksum, execution_ms) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE checksum = VALUES(checksum), execution_ms = VALUES(execution_ms)`,
		filename, checksum, took.Milliseconds())
	return err
}
