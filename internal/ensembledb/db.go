// Package ensembledb holds the live catalogue of ensemble, services,
// service components, and subchannel descriptors rebuilt from the FIC
// (spec.md §3/§4.2), backed by a GORM/SQLite store.
//
// The connection setup -- pure-Go sqlite driver, WAL-style pragmas, a
// GORM logger wired to the receiver's own *log.Logger -- is grounded on
// dbehnke-ysf2dmr/internal/database/db.go, generalized from its
// file-backed single-table DMRUser store to a four-table ensemble
// schema. The FIC's entities don't need to survive a process restart,
// so the default DSN is ":memory:", but Open accepts a path so a
// configured backing file (config.GetDatabasePath()) can be used
// instead, e.g. to inspect the last-seen ensemble across runs.
package ensembledb

import (
	"database/sql"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DB wraps the GORM handle over the in-memory ensemble schema.
type DB struct {
	gdb *gorm.DB
}

// Open creates the ensemble database and migrates the schema. path
// selects the backing store; an empty path (or ":memory:") opens a
// fresh in-memory database. logger may be nil, in which case GORM
// logging is silenced.
func Open(l *log.Logger, path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}

	var gormLog logger.Interface
	if l != nil {
		gormLog = logger.New(l, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// An unshared in-memory SQLite database only exists on one
		// connection; a second pooled connection would see an empty schema.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := configurePragmas(sqlDB); err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(&Ensemble{}, &Service{}, &ServiceComponent{}, &SubchannelDescriptor{}); err != nil {
		return nil, err
	}

	if l != nil {
		l.Printf("ensemble database initialized (%s)", path)
	}

	return &DB{gdb: gdb}, nil
}

func configurePragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=memory",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (db *DB) Close() error {
	sqlDB, err := db.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset clears every table, for use when a new SYNCED transition starts
// a fresh ensemble scan (spec.md §3: "Lifecycle: database entities
// persist for the run").
func (db *DB) Reset() error {
	return db.gdb.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&Ensemble{}, &Service{}, &ServiceComponent{}, &SubchannelDescriptor{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
