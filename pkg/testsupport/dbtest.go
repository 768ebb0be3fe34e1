package testsupport

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named shared in-memory SQLite database wrapped in
// bun. Distinct names give isolated databases.
func NewSQLiteMemoryDB(name string) (*bun.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	if name == "" {
		name = "memory"
	}
	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
