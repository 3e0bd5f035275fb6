package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SanderWeide/sneaker-engine/internal/model"
)

// NewUser bundles the fields needed to create an account.
type NewUser struct {
	Email        string
	Username     string
	FirstName    string
	MiddleName   string
	LastName     string
	PasswordHash string
}

// CreateUser creates a new user account.
func CreateUser(ctx context.Context, db *sql.DB, nu NewUser) (*model.User, error) {
	var middle any
	if nu.MiddleName != "" {
		middle = nu.MiddleName
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, username, first_name, middle_name, last_name, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nu.Email, nu.Username, nu.FirstName, middle, nu.LastName, nu.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	return scanUserRow(db.QueryRowContext(ctx,
		`SELECT id, email, username, first_name, middle_name, last_name, password_hash, created_at
		 FROM users WHERE id = ?`, id,
	))
}

// GetUserByEmail returns a user by email address.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return scanUserRow(db.QueryRowContext(ctx,
		`SELECT id, email, username, first_name, middle_name, last_name, password_hash, created_at
		 FROM users WHERE email = ?`, email,
	))
}

// GetUserByUsername returns a user by username.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	return scanUserRow(db.QueryRowContext(ctx,
		`SELECT id, email, username, first_name, middle_name, last_name, password_hash, created_at
		 FROM users WHERE username = ?`, username,
	))
}

// ListUsers returns users ordered by ID. Limit <= 0 means no limit.
func ListUsers(ctx context.Context, db *sql.DB, skip, limit int) ([]model.User, error) {
	query := `SELECT id, email, username, first_name, middle_name, last_name, password_hash, created_at
		 FROM users ORDER BY id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if skip > 0 {
			query += " OFFSET ?"
			args = append(args, skip)
		}
	} else if skip > 0 {
		// SQLite requires LIMIT before OFFSET; -1 means unlimited.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, skip)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var middle sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &middle, &u.LastName, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.MiddleName = middle.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial profile update.
// Returns the updated row, or nil if the user does not exist.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, patch model.UserPatch) (*model.User, error) {
	var sets []string
	var args []any

	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *patch.Username)
	}
	if patch.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *patch.FirstName)
	}
	if patch.MiddleName != nil {
		sets = append(sets, "middle_name = ?")
		var middle any
		if *patch.MiddleName != "" {
			middle = *patch.MiddleName
		}
		args = append(args, middle)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *patch.LastName)
	}

	if len(sets) > 0 {
		args = append(args, id)
		_, err := db.ExecContext(ctx,
			`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
	}

	return GetUser(ctx, db, id)
}

// DeleteUser removes a user account. Returns false if it did not exist.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	return n > 0, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

func scanUserRow(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	var middle sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &middle, &u.LastName, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.MiddleName = middle.String
	return u, nil
}
