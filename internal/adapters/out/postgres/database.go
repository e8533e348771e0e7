// Package postgres opens the PostgreSQL connection shared by the repositories and
// query handlers, and creates their tables.
//
// Usage:
//
//	db, err := postgres.Open(postgres.DSN("localhost", "5432", "app", "secret", "ingest", "disable"))
//	if err != nil {
//	    return err
//	}
//	if err := postgres.AutoMigrate(db); err != nil {
//	    return err
//	}
//
//	jobs := jobrepo.NewGormJobRepository(db)
//	deliveries := deliveryrepo.NewGormDeliveryRepository(db)
package postgres

import (
	"fmt"
	"net"
	"net/url"

	"deliveryingest/internal/adapters/out/postgres/deliveryrepo"
	"deliveryingest/internal/adapters/out/postgres/jobrepo"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a postgres:// connection URL. An empty sslMode means "disable".
func DSN(host, port, user, password, dbName, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// Open connects to PostgreSQL through GORM with SQL logging silenced.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the jobs and unified_deliveries tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&jobrepo.JobDTO{}, &deliveryrepo.DeliveryDTO{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
