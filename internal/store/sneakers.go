package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SanderWeide/sneaker-engine/internal/model"
)

const sneakerColumns = `id, sku, brand, model, size, color, purchase_price, description, photo_mime, user_id, created_at, updated_at`

// SneakerFilter narrows ListSneakers results. Zero values mean "no filter";
// Limit <= 0 means no limit.
type SneakerFilter struct {
	UserID int64
	SKU    string
	Brand  string
	Model  string
	Skip   int
	Limit  int
}

// CreateSneaker inserts a new sneaker owned by userID.
func CreateSneaker(ctx context.Context, db *sql.DB, userID int64, draft model.SneakerDraft) (*model.Sneaker, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO sneakers (sku, brand, model, size, color, purchase_price, description, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.SKU, draft.Brand, draft.Model, draft.Size,
		nullString(draft.Color), draft.PurchasePrice, nullString(draft.Description), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sneaker: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sneaker id: %w", err)
	}

	return GetSneaker(ctx, db, id)
}

// GetSneaker returns a sneaker by ID.
func GetSneaker(ctx context.Context, db *sql.DB, id int64) (*model.Sneaker, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+sneakerColumns+` FROM sneakers WHERE id = ?`, id,
	)
	s, err := scanSneaker(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sneaker: %w", err)
	}
	return s, nil
}

// ListSneakers returns sneakers matching the filter, ordered by ID.
// SKU matches exactly; brand and model match as case-insensitive substrings.
func ListSneakers(ctx context.Context, db *sql.DB, filter SneakerFilter) ([]model.Sneaker, error) {
	var conds []string
	var args []any

	if filter.UserID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.SKU != "" {
		conds = append(conds, "sku = ?")
		args = append(args, filter.SKU)
	}
	if filter.Brand != "" {
		conds = append(conds, "brand LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.Brand+"%")
	}
	if filter.Model != "" {
		conds = append(conds, "model LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.Model+"%")
	}

	query := `SELECT ` + sneakerColumns + ` FROM sneakers`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Skip > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Skip)
		}
	} else if filter.Skip > 0 {
		// SQLite requires LIMIT before OFFSET; -1 means unlimited.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Skip)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sneakers: %w", err)
	}
	defer rows.Close()

	var sneakers []model.Sneaker
	for rows.Next() {
		s, err := scanSneaker(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning sneaker: %w", err)
		}
		sneakers = append(sneakers, *s)
	}
	return sneakers, rows.Err()
}

// UpdateSneaker applies a partial update and stamps updated_at.
// Returns the updated row, or nil if the sneaker does not exist.
func UpdateSneaker(ctx context.Context, db *sql.DB, id int64, patch model.SneakerPatch) (*model.Sneaker, error) {
	var sets []string
	var args []any

	if patch.SKU != nil {
		sets = append(sets, "sku = ?")
		args = append(args, *patch.SKU)
	}
	if patch.Brand != nil {
		sets = append(sets, "brand = ?")
		args = append(args, *patch.Brand)
	}
	if patch.Model != nil {
		sets = append(sets, "model = ?")
		args = append(args, *patch.Model)
	}
	if patch.Size != nil {
		sets = append(sets, "size = ?")
		args = append(args, *patch.Size)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, nullString(*patch.Color))
	}
	if patch.PurchasePrice != nil {
		sets = append(sets, "purchase_price = ?")
		args = append(args, *patch.PurchasePrice)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(*patch.Description))
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, id)

		_, err := db.ExecContext(ctx,
			`UPDATE sneakers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return nil, fmt.Errorf("updating sneaker: %w", err)
		}
	}

	return GetSneaker(ctx, db, id)
}

// DeleteSneaker removes a sneaker. Returns false if it did not exist.
func DeleteSneaker(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM sneakers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting sneaker: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting sneaker: %w", err)
	}
	return n > 0, nil
}

// SetSneakerPhoto stores a sneaker's photo bytes and MIME type.
func SetSneakerPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE sneakers SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting sneaker photo: %w", err)
	}
	return nil
}

// GetSneakerPhoto returns a sneaker's photo bytes and MIME type.
// Both are empty when no photo has been uploaded.
func GetSneakerPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM sneakers WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting sneaker photo: %w", err)
	}
	return photo, mime.String, nil
}

func scanSneaker(scan func(...any) error) (*model.Sneaker, error) {
	s := &model.Sneaker{}
	var color, description, photoMime sql.NullString
	var price sql.NullFloat64
	err := scan(&s.ID, &s.SKU, &s.Brand, &s.Model, &s.Size, &color, &price, &description, &photoMime, &s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Color = color.String
	s.Description = description.String
	s.PhotoMime = photoMime.String
	if price.Valid {
		s.PurchasePrice = &price.Float64
	}
	return s, nil
}

// nullString maps "" to NULL so optional text columns stay NULL instead of
// storing empty strings.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
