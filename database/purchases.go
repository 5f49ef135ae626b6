package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"checkout-pricing-api/models"
)

const mysqlDuplicateEntry = 1062

var (
	ErrDuplicateAttempt = errors.New("purchase attempt already recorded")
	ErrAttemptNotFound  = errors.New("purchase attempt not found")
)

// LockPurchase takes the per account purchase lock. Locks older than five minutes are
// considered abandoned and are taken over.
func (c *Connection) LockPurchase(ctx context.Context, accountEmail string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := c.db.ExecContext(ctx, `
		INSERT INTO purchase_locks (account_email, locked_at)
		VALUES (?, NOW())
		ON DUPLICATE KEY UPDATE
		locked_at = IF(locked_at < NOW() - INTERVAL 5 MINUTE, NOW(), locked_at)
	`, accountEmail)
	if err != nil {
		return false, fmt.Errorf("error acquiring lock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (c *Connection) ReleasePurchaseLock(ctx context.Context, accountEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM purchase_locks WHERE account_email = ?`, accountEmail); err != nil {
		return fmt.Errorf("error releasing lock: %w", err)
	}
	return nil
}

func (c *Connection) RecordAttempt(ctx context.Context, attempt models.PurchaseAttempt) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO purchase_attempts (
			id, account_email, plan_id, discount_id, total, promocode,
			origin_inbound, payment_method, status, error_code, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		attempt.ID, attempt.AccountEmail, attempt.PlanID, attempt.DiscountID,
		attempt.Total.StringFixed(2), attempt.Promocode, attempt.OriginInbound,
		attempt.PaymentMethod, int(attempt.Status), attempt.ErrorCode, now, now,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateAttempt
		}
		return fmt.Errorf("failed to record purchase attempt: %w", err)
	}
	return nil
}

func (c *Connection) UpdateStatus(ctx context.Context, id string, status models.PurchaseStatus, errorCode string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := c.db.ExecContext(ctx, `
		UPDATE purchase_attempts
		SET status = ?, error_code = ?, updated_at = ?
		WHERE id = ?
	`, int(status), errorCode, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update purchase attempt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

func (c *Connection) GetAttempt(ctx context.Context, id string) (*models.PurchaseAttempt, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		attempt models.PurchaseAttempt
		total   string
		status  int
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, account_email, plan_id, discount_id, total, promocode,
		       origin_inbound, payment_method, status, error_code
		FROM purchase_attempts
		WHERE id = ?
	`, id).Scan(
		&attempt.ID, &attempt.AccountEmail, &attempt.PlanID, &attempt.DiscountID, &total,
		&attempt.Promocode, &attempt.OriginInbound, &attempt.PaymentMethod, &status, &attempt.ErrorCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get purchase attempt: %w", err)
	}

	if err := attempt.Total.Scan(total); err != nil {
		return nil, fmt.Errorf("invalid total for purchase attempt %s: %w", id, err)
	}
	attempt.Status = models.PurchaseStatus(status)
	return &attempt, nil
}
