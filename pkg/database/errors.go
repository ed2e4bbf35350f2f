package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation 匹配任意约束冲突
	ErrConstraintViolation = errors.New("constraint violation")

	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrNotNullViolation    = errors.New("not null violation")

	ErrNotFound = errors.New("record not found")
)

// PostgreSQL SQLSTATE, class 23 (integrity constraint violation).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// ConstraintError carries the violated constraint. errors.Is matches Kind and
// ErrConstraintViolation; errors.As reaches the driver error.
type ConstraintError struct {
	Kind       error
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Constraint != "" {
		fmt.Fprintf(&b, " (%s)", e.Constraint)
	} else if e.Table != "" {
		fmt.Fprintf(&b, " (%s)", e.Table)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation || target == e.Kind
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraintViolation reports whether err is any kind of constraint violation.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// Translate maps driver and gorm errors onto the package sentinels. Errors it
// does not recognise are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := pgKind(pgErr.Code)
		if kind == nil {
			return err
		}
		name := pgErr.ConstraintName
		if name == "" && pgErr.ColumnName != "" {
			name = pgErr.TableName + "." + pgErr.ColumnName
		}
		return &ConstraintError{Kind: kind, Table: pgErr.TableName, Constraint: name, Err: err}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		kind := sqliteKind(liteErr.ExtendedCode)
		if kind == nil {
			return err
		}
		table, constraint := sqliteTarget(liteErr.Error())
		return &ConstraintError{Kind: kind, Table: table, Constraint: constraint, Err: err}
	}
	return err
}

func pgKind(code string) error {
	switch code {
	case pgUniqueViolation:
		return ErrUniqueViolation
	case pgForeignKeyViolation:
		return ErrForeignKeyViolation
	case pgNotNullViolation:
		return ErrNotNullViolation
	}
	return nil
}

func sqliteKind(code sqlite3.ErrNoExtended) error {
	switch code {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrUniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ErrForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		return ErrNotNullViolation
	}
	return nil
}

// sqliteTarget parses "UNIQUE constraint failed: likes.user_id, likes.post_id".
// Foreign key failures carry no target.
func sqliteTarget(msg string) (table, constraint string) {
	_, target, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return "", ""
	}
	constraint = strings.TrimSpace(target)
	if t, _, ok := strings.Cut(constraint, "."); ok {
		table = t
	}
	return table, constraint
}
