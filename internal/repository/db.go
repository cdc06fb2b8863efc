package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition bound to one argument. Every "$?" in cond is
// replaced by that argument's placeholder.
func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, strings.ReplaceAll(cond, "$?", "$"+strconv.Itoa(len(w.args))))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// placeholder returns the index the next appended argument will take.
func (w *whereBuilder) placeholder() int {
	return len(w.args) + 1
}
