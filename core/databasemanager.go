package core

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

func ParseLogLevel(s string) LogLevel {
	switch s {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	default:
		return LogLevelInfo
	}
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Options struct {
	Driver         string
	DSN            string
	MaxConnections int
	LogLevel       LogLevel
}

type DatabaseManager struct {
	DB       *gorm.DB
	LogLevel LogLevel
}

// New opens the pool for the configured driver. SQLite is limited to a
// single connection so in-memory databases are shared and writers never
// see SQLITE_BUSY.
func New(opts Options) (*DatabaseManager, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverMySQL, "":
		dialector = mysql.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	// Map local LogLevel to GORM LogLevel
	gormLogLevel := logger.Silent
	switch opts.LogLevel {
	case LogLevelError:
		gormLogLevel = logger.Error
	case LogLevelWarn:
		gormLogLevel = logger.Warn
	case LogLevelInfo:
		gormLogLevel = logger.Info
	case LogLevelSilent:
		gormLogLevel = logger.Silent
	default:
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	maxConnection := opts.MaxConnections
	if maxConnection <= 0 {
		maxConnection = 10
	}
	if opts.Driver == DriverSQLite {
		maxConnection = 1
	} else {
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)

	if err := ping(sqlDB); err != nil {
		return nil, err
	}

	return &DatabaseManager{DB: db, LogLevel: opts.LogLevel}, nil
}

// ping closes the pool when the database cannot be reached.
func ping(sqlDB *sql.DB) error {
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping pool: %w", err)
	}
	return nil
}

// Close closes the pool
func (dm *DatabaseManager) Close() error {
	sqlDB, err := dm.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
