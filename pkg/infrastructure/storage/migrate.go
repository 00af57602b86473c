package storage

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded migrations of the database dialect.
// The database handle stays open.
func Migrate(db *sqlx.DB) error {
	driverName := db.DriverName()

	source, err := iofs.New(migrations, "migrations/"+driverName)
	if err != nil {
		return errors.Wrapf(err, "load %s migrations", driverName)
	}

	var target database.Driver
	switch driverName {
	case DriverMySQL:
		target, err = mysql.WithInstance(db.DB, &mysql.Config{})
	case DriverPostgres:
		target, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	default:
		return errors.Errorf("no migrations for driver %q", driverName)
	}
	if err != nil {
		return errors.Wrap(err, "prepare migration target")
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, target)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read migration version")
	}
	log.WithFields(log.Fields{"driver": driverName, "version": version, "dirty": dirty}).Info("database migrated")
	return nil
}
