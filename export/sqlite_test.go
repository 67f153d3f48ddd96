package export_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/export"
	"github.com/dhamidi/classgraph/importer"
	"github.com/dhamidi/classgraph/internal/classgen"
	"github.com/dhamidi/classgraph/java"
)

func importSample(t *testing.T) *java.Classes {
	t.Helper()
	service := classgen.New("com.example.app.Service").Source("Service.java")
	service.Field("repo", "com.example.data.Repo")
	service.Method("run", "()V").Code(func(code *classgen.Code) {
		code.Line(7).InvokeVirtual("com.example.data.Repo", "load", "()V").Return()
	})
	repo := classgen.New("com.example.data.Repo").Source("Repo.java")
	repo.Method("load", "()V")

	var records []*classfile.ClassRecord
	for _, c := range []*classgen.Class{service, repo} {
		rec, err := classfile.ReadBytes(c.Bytes())
		require.NoError(t, err)
		records = append(records, rec)
	}
	res, err := importer.New(importer.Options{}).ImportRecords(context.Background(), records...)
	require.NoError(t, err)
	return res.Classes
}

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")
	classes := importSample(t)

	require.NoError(t, export.WriteFile(ctx, path, classes))
	// a second export replaces the first
	require.NoError(t, export.WriteFile(ctx, path, classes))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classes`).Scan(&count))
	assert.Equal(t, len(classes.All()), count)

	var origin, source string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT origin, source_file FROM classes WHERE name = ?`, "com.example.app.Service").Scan(&origin, &source))
	assert.Equal(t, "imported", origin)
	assert.Equal(t, "Service.java", source)

	var parent sql.NullString
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT parent FROM packages WHERE name = ?`, "com.example.app").Scan(&parent))
	assert.Equal(t, "com.example", parent.String)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT parent FROM packages WHERE name = ''`).Scan(&parent))
	assert.False(t, parent.Valid)

	rows, err := db.QueryContext(ctx,
		`SELECT kind, line FROM dependencies WHERE origin = ? AND target = ? ORDER BY rowid`,
		"com.example.app.Service", "com.example.data.Repo")
	require.NoError(t, err)
	defer rows.Close()
	var kinds []string
	var lines []int
	for rows.Next() {
		var kind string
		var line int
		require.NoError(t, rows.Scan(&kind, &line))
		kinds = append(kinds, kind)
		lines = append(lines, line)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"FIELD_TYPE", "METHOD_CALL"}, kinds)
	assert.Equal(t, []int{0, 7}, lines)

	var edges int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT edges FROM package_dependencies WHERE origin = ? AND target = ?`,
		"com.example.app", "com.example.data").Scan(&edges))
	assert.Equal(t, 2, edges)
}
