package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		driver     string
		migrations string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", "sqlite"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", "postgres"},
		{"MySQL", NewMySQLDialect(), "mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.driver, tt.dialect.DriverName())
			assert.Equal(t, tt.migrations, tt.dialect.MigrationsSubdir())
			assert.Contains(t, tt.dialect.CreateMigrationsTableQuery(), "migrations")
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM coaching_sessions WHERE id = ?",
			expected: "SELECT * FROM coaching_sessions WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM coaching_sessions WHERE id = ?",
			expected: "SELECT * FROM coaching_sessions WHERE id = $1",
		},
		{
			name:     "PostgreSQL guarded update",
			dialect:  NewPostgresDialect(),
			query:    "UPDATE coaching_sessions SET status = ?, ended_at = ? WHERE id = ? AND status = 'active'",
			expected: "UPDATE coaching_sessions SET status = $1, ended_at = $2 WHERE id = $3 AND status = 'active'",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE offline_actions SET completed = ? WHERE id = ?",
			expected: "UPDATE offline_actions SET completed = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.RewriteQuery(tt.query))
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	d := NewSQLiteDialect()

	dsn := d.DSN(DialectConfig{Path: "/tmp/coach.db"})
	assert.True(t, strings.HasPrefix(dsn, "file:/tmp/coach.db?"))
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_busy_timeout=5000")

	explicit := "file::memory:?cache=shared"
	assert.Equal(t, explicit, d.DSN(DialectConfig{Path: explicit}))
}

func TestMySQLDSNForcesParseTime(t *testing.T) {
	dsn := NewMySQLDialect().DSN(DialectConfig{URL: "coach:pw@tcp(localhost:3306)/coach"})
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestSplitStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (id TEXT);

CREATE INDEX idx_a ON a(id);
`
	stmts := splitStatements(content)
	assert.Equal(t, []string{"CREATE TABLE a (id TEXT)", "CREATE INDEX idx_a ON a(id)"}, stmts)
}
