// Package export writes a completed class graph to a SQLite database so it
// can be explored with plain SQL.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/dhamidi/classgraph/java"
)

const schema = `
CREATE TABLE classes (
	name        TEXT PRIMARY KEY,
	simple_name TEXT NOT NULL,
	package     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	origin      TEXT NOT NULL,
	modifiers   TEXT NOT NULL,
	source_file TEXT,
	superclass  TEXT,
	enclosing   TEXT
);
CREATE TABLE packages (
	name        TEXT PRIMARY KEY,
	parent      TEXT,
	class_count INTEGER NOT NULL
);
CREATE TABLE dependencies (
	origin      TEXT NOT NULL,
	target      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	line        INTEGER NOT NULL,
	description TEXT NOT NULL
);
CREATE INDEX dependencies_origin ON dependencies(origin);
CREATE INDEX dependencies_target ON dependencies(target);
CREATE TABLE package_dependencies (
	origin TEXT NOT NULL,
	target TEXT NOT NULL,
	edges  INTEGER NOT NULL,
	PRIMARY KEY (origin, target)
);
`

// WriteFile replaces the database at path with a fresh export of classes.
func WriteFile(ctx context.Context, path string, classes *java.Classes) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return Write(ctx, db, classes)
}

// Write creates the tables in db and fills them in one transaction. Every
// node of the graph becomes a row of classes; dependencies are those of the
// imported classes.
func Write(ctx context.Context, db *sql.DB, classes *java.Classes) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range classes.All() {
		var super, enclosing string
		if s := c.Superclass(); s != nil {
			super = s.Name()
		}
		if e := c.EnclosingClass(); e != nil {
			enclosing = e.Name()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (name, simple_name, package, kind, origin, modifiers, source_file, superclass, enclosing)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Name(), c.SimpleName(), c.PackageName(), string(c.Kind()), c.Origin().String(),
			c.Modifiers().String(), nullString(c.SourceFile()), nullString(super), nullString(enclosing),
		); err != nil {
			return fmt.Errorf("insert class %s: %w", c.Name(), err)
		}
	}

	packages := append([]*java.Package{classes.DefaultPackage()}, classes.DefaultPackage().AllSubPackages()...)
	for _, p := range packages {
		// only the default package has no parent
		var parent sql.NullString
		if p.Parent() != nil {
			parent = sql.NullString{String: p.Parent().Name(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO packages (name, parent, class_count) VALUES (?, ?, ?)`,
			p.Name(), parent, len(p.Classes()),
		); err != nil {
			return fmt.Errorf("insert package %s: %w", p.Name(), err)
		}
		for _, pd := range p.DirectDependenciesFromSelf() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO package_dependencies (origin, target, edges) VALUES (?, ?, ?)`,
				pd.Origin.Name(), pd.Target.Name(), len(pd.Dependencies),
			); err != nil {
				return fmt.Errorf("insert package dependency %s: %w", pd.Description(), err)
			}
		}
	}

	for _, c := range classes.Slice() {
		for _, d := range c.DependenciesFromSelf() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO dependencies (origin, target, kind, line, description) VALUES (?, ?, ?, ?, ?)`,
				d.Origin.Name(), d.Target.Name(), d.Kind.String(), d.Line, d.Description,
			); err != nil {
				return fmt.Errorf("insert dependency %s: %w", d.Description, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
