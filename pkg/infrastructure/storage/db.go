package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driver)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s database", driver)
	}
	return db, nil
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// checkDeleted reports a delete that matched no row as notFound.
func checkDeleted(res sql.Result, notFound error, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete %s", what)
	}
	if n == 0 {
		return errors.WithStack(notFound)
	}
	return nil
}
