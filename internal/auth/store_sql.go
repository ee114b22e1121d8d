package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore implements UserStore over database/sql (sqlite or postgres).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

var _ UserStore = (*SQLStore)(nil)

const userColumns = `id,name,email,phone_number,password_hash,role,created_at,last_login_at`

func (s *SQLStore) Create(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULL)`,
		u.ID, u.Name, nullable(u.Email), nullable(u.PhoneNumber),
		u.PasswordHash, u.Role, u.CreatedAt.Unix())
	return err
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.getWhere(ctx, `id=$1`, id)
}

func (s *SQLStore) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getWhere(ctx, `email=$1`, email)
}

func (s *SQLStore) GetByPhone(ctx context.Context, phone string) (User, error) {
	return s.getWhere(ctx, `phone_number=$1`, phone)
}

func (s *SQLStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at=$1 WHERE id=$2`, at.Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLStore) getWhere(ctx context.Context, cond string, arg any) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	var u User
	var email, phone sql.NullString
	var createdAt int64
	var lastLogin sql.NullInt64
	err := row.Scan(&u.ID, &u.Name, &email, &phone, &u.PasswordHash, &u.Role, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Email = email.String
	u.PhoneNumber = phone.String
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	if lastLogin.Valid {
		t := time.Unix(lastLogin.Int64, 0).UTC()
		u.LastLoginAt = &t
	}
	return u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
