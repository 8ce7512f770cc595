package migrations

import (
	"context"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationFilename(t *testing.T) {
	version, name, err := parseMigrationFilename("0002_create_password_resets.up.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, "create_password_resets", name)

	_, _, err = parseMigrationFilename("create.up.sql")
	assert.Error(t, err)

	_, _, err = parseMigrationFilename("x_create.up.sql")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	files, err := getMigrationFiles(mustSub(t))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "create_users", files[0].Name)
	assert.Equal(t, "create_password_resets", files[1].Name)
	assert.Contains(t, files[1].Up, "REFERENCES users (email)")
}

func TestRunSkipsAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"0001_one.up.sql": {Data: []byte("CREATE TABLE one (id INT)")},
		"0002_two.up.sql": {Data: []byte("CREATE TABLE two (id INT)")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE two").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "two").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Run(context.Background(), db, fsys, zerolog.Nop()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func mustSub(t *testing.T) fstest.MapFS {
	t.Helper()
	out := fstest.MapFS{}
	entries, err := embedded.ReadDir("sql")
	require.NoError(t, err)
	for _, e := range entries {
		data, err := embedded.ReadFile("sql/" + e.Name())
		require.NoError(t, err)
		out[e.Name()] = &fstest.MapFile{Data: data}
	}
	return out
}
