package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
}

// DSN builds the driver connection string.
func (c DatabaseConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

type Connection struct {
	db *sql.DB
}

func NewConnection(config DatabaseConfig) (*Connection, error) {
	db, err := sql.Open("mysql", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	conn := NewConnectionFromDB(db)
	if err := conn.ensureConnection(); err != nil {
		db.Close()
		return nil, err
	}

	return conn, nil
}

// NewConnectionFromDB wraps an already opened pool.
func NewConnectionFromDB(db *sql.DB) *Connection {
	return &Connection{db: db}
}

func (c *Connection) ensureConnection() error {
	for retries := 0; retries < 3; retries++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.db.PingContext(ctx)
		cancel()

		if err == nil {
			return nil
		}

		logger.Log.Warn("database ping failed", zap.Int("attempt", retries+1), zap.Error(err))
		time.Sleep(time.Second * time.Duration(retries+1))
	}
	return fmt.Errorf("failed to establish database connection after 3 attempts")
}

// Ping checks the pool once, for health checks.
func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Connection) Close() error {
	return c.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS purchase_attempts (
	id             CHAR(36)      NOT NULL PRIMARY KEY,
	account_email  VARCHAR(255)  NOT NULL,
	plan_id        INT           NOT NULL,
	discount_id    INT           NOT NULL DEFAULT 0,
	total          DECIMAL(12,2) NOT NULL,
	promocode      VARCHAR(64)   NOT NULL DEFAULT '',
	origin_inbound VARCHAR(255)  NOT NULL DEFAULT '',
	payment_method VARCHAR(16)   NOT NULL,
	status         TINYINT       NOT NULL,
	error_code     VARCHAR(128)  NOT NULL DEFAULT '',
	created_at     DATETIME      NOT NULL,
	updated_at     DATETIME      NOT NULL,
	KEY idx_purchase_attempts_account (account_email, created_at)
);
CREATE TABLE IF NOT EXISTS purchase_locks (
	account_email VARCHAR(255) NOT NULL PRIMARY KEY,
	locked_at     DATETIME     NOT NULL
);`

// EnsureSchema creates the tables this service owns.
func (c *Connection) EnsureSchema(ctx context.Context) error {
	for _, stmt := range splitStatements(schema) {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func splitStatements(sqlText string) []string {
	var stmts []string
	for _, stmt := range strings.Split(sqlText, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
