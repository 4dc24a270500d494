package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

// memoryStore pretends to be a MySQL schema: CREATE statements fail with
// 1050 when the object already exists.
type memoryStore struct {
	objects  map[string]bool
	recorded map[string]string
	execs    int
	failOn   string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string]bool{}, recorded: map[string]string{}}
}

func (s *memoryStore) EnsureTable(ctx context.Context) error { return nil }

func (s *memoryStore) Applied(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.recorded))
	for k, v := range s.recorded {
		out[k] = v
	}
	return out, nil
}

func (s *memoryStore) Exec(ctx context.Context, stmt string) error {
	s.execs++
	if s.failOn != "" && strings.Contains(stmt, s.failOn) {
		return &mysql.MySQLError{Number: 1064, Message: "syntax error"}
	}
	if s.objects[stmt] {
		return &mysql.MySQLError{Number: ErrNumTableExists, Message: "Table already exists"}
	}
	s.objects[stmt] = true
	return nil
}

func (s *memoryStore) Record(ctx context.Context, filename, checksum string, took time.Duration) error {
	s.recorded[filename] = checksum
	return nil
}

func testMigrations(t *testing.T) []Migration {
	t.Helper()
	fsys := fstest.MapFS{
		"002_b.up.sql":    {Data: []byte("CREATE TABLE b (id INT);\n")},
		"002_b.down.sql":  {Data: []byte("DROP TABLE b;\n")},
		"001_a.up.sql":    {Data: []byte("-- first\nCREATE TABLE a (id INT);\nCREATE INDEX ia ON a (id);\n")},
		"README.md":       {Data: []byte("ignored")},
		"nested/x.up.sql": {Data: []byte("CREATE TABLE x (id INT);")},
	}
	migs, err := LoadMigrations(fsys)
	require.NoError(t, err)
	return migs
}

func TestLoadMigrationsSortsAndSplits(t *testing.T) {
	migs := testMigrations(t)
	require.Len(t, migs, 2)
	require.Equal(t, "001_a.up.sql", migs[0].Filename)
	require.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX ia ON a (id)"}, migs[0].Statements)
	require.Len(t, migs[0].Checksum, 64)
}

func TestRunTwiceAppliesNothingSecondTime(t *testing.T) {
	store := newMemoryStore()
	m := NewMigrator(store, nil)
	migs := testMigrations(t)

	first, err := m.Run(context.Background(), migs)
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.up.sql", "002_b.up.sql"}, first.Applied)

	execs := store.execs
	second, err := m.Run(context.Background(), migs)
	require.NoError(t, err)
	require.Empty(t, second.Applied)
	require.Equal(t, []string{"001_a.up.sql", "002_b.up.sql"}, second.Skipped)
	require.Equal(t, execs, store.execs)
}

func TestRunToleratesAlreadyExistingObjects(t *testing.T) {
	store := newMemoryStore()
	store.objects["CREATE TABLE a (id INT)"] = true // schema created outside the runner
	m := NewMigrator(store, nil)

	rep, err := m.Run(context.Background(), testMigrations(t))
	require.NoError(t, err)
	require.Contains(t, rep.Applied, "001_a.up.sql")
	require.Contains(t, store.recorded, "001_a.up.sql")
}

func TestRunStopsOnRealFailure(t *testing.T) {
	store := newMemoryStore()
	store.failOn = "TABLE b"
	m := NewMigrator(store, nil)

	rep, err := m.Run(context.Background(), testMigrations(t))
	require.Error(t, err)
	require.Equal(t, []string{"001_a.up.sql"}, rep.Applied)
	require.NotContains(t, store.recorded, "002_b.up.sql")
}

func TestLoadMigrationsVersionsOnlyWithDown(t *testing.T) {
	migs, err := LoadMigrations(fstest.MapFS{
		"001_a.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"002_b.down.sql": {Data: []byte("DROP TABLE b;")},
	})
	require.NoError(t, err)
	require.Len(t, migs, 1)
	require.Equal(t, "001_a.up.sql", migs[0].Filename)
}

func TestLoadMigrationsEmptyDirectory(t *testing.T) {
	migs, err := LoadMigrations(fstest.MapFS{"README.md": {Data: []byte("x")}})
	require.NoError(t, err)
	require.Empty(t, migs)
}

func TestSplitStatementsKeepsMultilineBodies(t *testing.T) {
	stmts, err := SplitStatements([]byte("CREATE TABLE t (\n  id INT,\n  -- note\n  name TEXT\n);\n\n-- trailing\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"CREATE TABLE t (\n  id INT,\n  name TEXT\n)"}, stmts)
}

func TestIsBenignMigrationError(t *testing.T) {
	for _, n := range []uint16{1050, 1060, 1061, 1062} {
		require.True(t, IsBenignMigrationError(&mysql.MySQLError{Number: n}), n)
	}
	require.False(t, IsBenignMigrationError(&mysql.MySQLError{Number: 1146}))
	require.False(t, IsBenignMigrationError(errors.New("connection refused")))
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	migs, err := LoadMigrations(EmbeddedMigrations())
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, "001_companies_users.up.sql", migs[0].Filename)
	for _, m := range migs {
		require.NotEmpty(t, m.Statements, m.Filename)
	}
}

func TestOptionsDSN(t *testing.T) {
	dsn := Options{User: "repair", Pass: "pw", Host: "db", Port: "3306", Name: "shop"}.DSN()
	require.Contains(t, dsn, "repair:pw@tcp(db:3306)/shop")
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "clientFoundRows=true")
}
