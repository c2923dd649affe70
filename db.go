package backchain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fealsamh/go-utils/dbutils"
	"github.com/google/uuid"
	"github.com/mailstepcz/slice"
)

// TableSpec maps a database relation to a predicate. Every row of the
// relation becomes a ground fact with one argument per column.
type TableSpec struct {
	// Table is the name of the relation.
	Table string
	// Predicate is the predicate symbol of the loaded facts.
	Predicate string
	// Columns are typed column definitions of the form "name::type".
	// The known column types are string, int, float and uuid.
	Columns []string
}

// FactsFromTable loads ground facts from a database relation. Rows are
// loaded in the order the database returns them, which becomes the
// fact-search order of the resulting knowledge base.
func FactsFromTable(ctx context.Context, q dbutils.Querier, spec TableSpec) ([]*Literal, error) {
	names := make([]string, len(spec.Columns))
	types := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		name, typ, ok := strings.Cut(c, "::")
		if !ok {
			return nil, fmt.Errorf("invalid column definition (bad structure): %q", c)
		}
		names[i] = name
		types[i] = typ
	}

	rows, err := q.QueryContext(ctx, `SELECT `+
		strings.Join(slice.Fmap(func(name string) string {
			return strconv.Quote(name)
		}, names), ", ")+
		` FROM `+strconv.Quote(spec.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []*Literal
	for rows.Next() {
		r := make([]interface{}, len(types))
		for i, typ := range types {
			switch typ {
			case "string":
				r[i] = new(sql.Null[string])
			case "int":
				r[i] = new(sql.Null[int])
			case "float":
				r[i] = new(sql.Null[float64])
			case "uuid":
				r[i] = new(uuid.UUID)
			default:
				return nil, fmt.Errorf("unknown column type: %q", typ)
			}
		}
		if err := rows.Scan(r...); err != nil {
			return nil, err
		}
		args := make([]Term, len(r))
		for i, x := range r {
			arg, err := constantForColumn(x)
			if err != nil {
				return nil, fmt.Errorf("column %q of %q: %w", names[i], spec.Table, err)
			}
			args[i] = arg
		}
		facts = append(facts, &Literal{Predicate: spec.Predicate, Args: args})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}

// FactsFromTables loads ground facts from several relations within a single
// read-only transaction, so the loaded knowledge base is a consistent
// snapshot. The facts are concatenated in spec order.
func FactsFromTables(ctx context.Context, db interface {
	dbutils.Querier
	dbutils.Txer
}, specs []TableSpec) ([]*Literal, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var facts []*Literal
	for _, spec := range specs {
		fs, err := FactsFromTable(ctx, tx, spec)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fs...)
	}
	return facts, nil
}

// constantForColumn converts a scanned column value into a constant.
// Facts must be ground, so NULLs are rejected.
func constantForColumn(x interface{}) (Term, error) {
	switch x := x.(type) {
	case *sql.Null[string]:
		if !x.Valid {
			return nil, errors.New("NULL value")
		}
		return Constant(x.V), nil
	case *sql.Null[int]:
		if !x.Valid {
			return nil, errors.New("NULL value")
		}
		return Constant(strconv.Itoa(x.V)), nil
	case *sql.Null[float64]:
		if !x.Valid {
			return nil, errors.New("NULL value")
		}
		return Constant(strconv.FormatFloat(x.V, 'g', -1, 64)), nil
	case *uuid.UUID:
		return Constant(x.String()), nil
	}
	panic("unknown type of column value")
}
