// Package database opens the relational store and creates the schema the
// validation core depends on. The handle is returned to the caller and
// injected into services; there is no package-global connection.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	"licenseserver/logger"
	"licenseserver/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Open connects to the configured store. driver is "sqlite" or "mysql";
// dsn is the SQLite file path or a full MySQL DSN.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite ships with foreign keys off.
	if driver == "sqlite" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate creates the schema. Statements are idempotent so startup can run
// them unconditionally.
func Migrate(db *sql.DB, driver string) error {
	autoIncrementPK := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "mysql" {
		autoIncrementPK = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(50) PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			email VARCHAR(100) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			company VARCHAR(255) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) UNIQUE NOT NULL,
			description TEXT,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS license_plans (
			id VARCHAR(50) PRIMARY KEY,
			product_id VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			duration_days INT NOT NULL DEFAULT 0,
			max_domains INT NOT NULL DEFAULT 1,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			features TEXT NOT NULL,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT '',
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS licenses (
			id VARCHAR(50) PRIMARY KEY,
			license_key VARCHAR(255) UNIQUE NOT NULL,
			customer_id VARCHAR(50) NOT NULL,
			plan_id VARCHAR(50) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			start_date VARCHAR(50) NOT NULL DEFAULT '',
			end_date VARCHAR(50),
			validation_count BIGINT NOT NULL DEFAULT 0,
			last_validation VARCHAR(50),
			expiry_notified INT NOT NULL DEFAULT 0,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT '',
			FOREIGN KEY (customer_id) REFERENCES customers(id),
			FOREIGN KEY (plan_id) REFERENCES license_plans(id)
		)`,

		`CREATE TABLE IF NOT EXISTS license_domains (
			id VARCHAR(50) PRIMARY KEY,
			license_id VARCHAR(50) NOT NULL,
			domain VARCHAR(255) NOT NULL,
			verified INT NOT NULL DEFAULT 0,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			FOREIGN KEY (license_id) REFERENCES licenses(id) ON DELETE CASCADE,
			UNIQUE (license_id, domain)
		)`,

		// license_id is nullable: attempts against unknown keys carry no
		// license reference instead of a sentinel id.
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS validation_logs (
			id %s,
			license_id VARCHAR(50),
			domain VARCHAR(255) NOT NULL,
			ip_address VARCHAR(45) NOT NULL DEFAULT '',
			client_id VARCHAR(255) NOT NULL DEFAULT '',
			is_valid INT NOT NULL DEFAULT 0,
			reason VARCHAR(100) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`, autoIncrementPK),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_activity_logs (
			id %s,
			admin_id VARCHAR(50) NOT NULL,
			username VARCHAR(100) NOT NULL,
			action VARCHAR(100) NOT NULL,
			details TEXT,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`, autoIncrementPK),

		`CREATE INDEX IF NOT EXISTS idx_licenses_key ON licenses(license_key)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_status ON licenses(status)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_end_date ON licenses(end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_product ON license_plans(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_domains_license ON license_domains(license_id)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_logs_license ON validation_logs(license_id)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_logs_created ON validation_logs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_admin_logs_created ON admin_activity_logs(created_at)`,
	}

	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			// MySQL predates CREATE INDEX IF NOT EXISTS; duplicates are fine.
			if strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// SeedAdmin creates the bootstrap admin account when the table is empty.
func SeedAdmin(db *sql.DB, username, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	id, err := utils.GenerateID("adm")
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err = db.Exec(
		`INSERT INTO admins (id, username, password, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, hash, "", now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Info("Bootstrap admin account created: %s", username)
	return nil
}
