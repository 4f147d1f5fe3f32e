package dbops

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-pg/pg/v10"
)

// Defines the go-pg hooks to enable the SQL query logging.
// It implements the "pg.QueryHook" interface.
type DBLogger struct{}

// Hook run before SQL query execution. The queries are printed to stderr
// so they can be redirected to a file.
func (d DBLogger) BeforeQuery(c context.Context, q *pg.QueryEvent) (context.Context, error) {
	query, err := q.FormattedQuery()
	if err != nil {
		// Print errors as SQL comments.
		fmt.Fprintf(os.Stderr, "%s -- error:%s\n", string(query), err)
	} else {
		fmt.Fprintln(os.Stderr, string(query))
	}
	return c, nil
}

// Hook run after SQL query execution.
func (d DBLogger) AfterQuery(c context.Context, q *pg.QueryEvent) error {
	return nil
}

// Prints the parameterized SQL query with its arguments to stderr. It is
// the database/sql counterpart of the DBLogger. The binary arguments are
// printed as hexadecimal strings.
func TraceQuery(query string, args ...any) {
	formatted := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case []byte:
			formatted = append(formatted, fmt.Sprintf("x'%X'", v))
		case string:
			formatted = append(formatted, fmt.Sprintf("'%s'", v))
		default:
			formatted = append(formatted, fmt.Sprint(v))
		}
	}
	query = strings.Join(strings.Fields(query), " ")
	if len(formatted) == 0 {
		fmt.Fprintln(os.Stderr, query)
		return
	}
	fmt.Fprintf(os.Stderr, "%s -- args: %s\n", query, strings.Join(formatted, ", "))
}
