package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pkoziol/bookshare/internal/model"
)

// VerificationTokenRepository persists email verification tokens. The
// sweep method carries the cleanup logic: it deletes expired tokens and,
// together with them, the accounts that never completed verification.
type VerificationTokenRepository interface {
	Create(ctx context.Context, t *model.EmailVerificationToken) (*model.EmailVerificationToken, error)
	GetByToken(ctx context.Context, token string) (*model.EmailVerificationToken, error)
	Delete(ctx context.Context, id uint64) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type verificationTokenMySQLRepository struct {
	db *sql.DB
}

// NewVerificationTokenMySQLRepository returns a
// VerificationTokenRepository backed by MySQL.
func NewVerificationTokenMySQLRepository(db *sql.DB) VerificationTokenRepository {
	return &verificationTokenMySQLRepository{db: db}
}

func (r *verificationTokenMySQLRepository) Create(ctx context.Context, t *model.EmailVerificationToken) (*model.EmailVerificationToken, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO email_verification_tokens (token, user_id, expires) VALUES (?,?,?)",
		t.Token, t.UserID, t.Expires)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t.ID = uint64(id)
	return t, nil
}

func (r *verificationTokenMySQLRepository) GetByToken(ctx context.Context, token string) (*model.EmailVerificationToken, error) {
	var t model.EmailVerificationToken
	err := r.db.QueryRowContext(ctx,
		"SELECT id, token, user_id, expires FROM email_verification_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.Token, &t.UserID, &t.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *verificationTokenMySQLRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM email_verification_tokens WHERE id=?", id)
	return err
}

// SweepExpired deletes every verification token past its expiry whose
// user is still disabled, along with that user and its role grants.
// Returns the number of removed tokens. A user who verifies between the
// scan and the delete may still lose the stale token row, but their
// enabled account is left untouched.
func (r *verificationTokenMySQLRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.user_id FROM email_verification_tokens t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.expires < ? AND u.enabled = 0`, now)
	if err != nil {
		return 0, err
	}
	type pair struct{ tokenID, userID uint64 }
	var doomed []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.tokenID, &p.userID); err != nil {
			rows.Close()
			return 0, err
		}
		doomed = append(doomed, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var removed int64
	for _, p := range doomed {
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM email_verification_tokens WHERE id=?", p.tokenID); err != nil {
			return removed, err
		}
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM user_roles WHERE user_id=?", p.userID); err != nil {
			return removed, err
		}
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM users WHERE id=? AND enabled=0", p.userID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
