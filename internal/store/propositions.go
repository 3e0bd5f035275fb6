package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SanderWeide/sneaker-engine/internal/model"
)

const propositionColumns = `id, seller_id, buyer_id, sneaker_id, value, agreed_datetime, created_at, updated_at`

// PropositionFilter narrows ListPropositions results. Zero IDs mean "no filter".
type PropositionFilter struct {
	SellerID  int64
	BuyerID   int64
	SneakerID int64
	Skip      int
	Limit     int
}

// CreateProposition inserts a new proposition.
func CreateProposition(ctx context.Context, db *sql.DB, draft model.PropositionDraft) (*model.Proposition, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO propositions (seller_id, buyer_id, sneaker_id, value, agreed_datetime)
		 VALUES (?, ?, ?, ?, ?)`,
		draft.SellerID, draft.BuyerID, draft.SneakerID, draft.Value, draft.AgreedDatetime,
	)
	if err != nil {
		return nil, fmt.Errorf("creating proposition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting proposition id: %w", err)
	}

	return GetProposition(ctx, db, id)
}

// GetProposition returns a proposition by ID.
func GetProposition(ctx context.Context, db *sql.DB, id int64) (*model.Proposition, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+propositionColumns+` FROM propositions WHERE id = ?`, id,
	)
	p, err := scanProposition(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting proposition: %w", err)
	}
	return p, nil
}

// ListPropositions returns propositions matching the filter, ordered by ID.
func ListPropositions(ctx context.Context, db *sql.DB, filter PropositionFilter) ([]model.Proposition, error) {
	var conds []string
	var args []any

	if filter.SellerID != 0 {
		conds = append(conds, "seller_id = ?")
		args = append(args, filter.SellerID)
	}
	if filter.BuyerID != 0 {
		conds = append(conds, "buyer_id = ?")
		args = append(args, filter.BuyerID)
	}
	if filter.SneakerID != 0 {
		conds = append(conds, "sneaker_id = ?")
		args = append(args, filter.SneakerID)
	}

	query := `SELECT ` + propositionColumns + ` FROM propositions`
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
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Skip)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing propositions: %w", err)
	}
	defer rows.Close()

	return collectPropositions(rows)
}

// ListUserPropositions returns all propositions where the user is seller or buyer.
func ListUserPropositions(ctx context.Context, db *sql.DB, userID int64) ([]model.Proposition, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+propositionColumns+` FROM propositions
		 WHERE seller_id = ? OR buyer_id = ? ORDER BY id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user propositions: %w", err)
	}
	defer rows.Close()

	return collectPropositions(rows)
}

// UpdateProposition applies a partial update and stamps updated_at.
// Returns the updated row, or nil if the proposition does not exist.
func UpdateProposition(ctx context.Context, db *sql.DB, id int64, patch model.PropositionPatch) (*model.Proposition, error) {
	var sets []string
	var args []any

	if patch.BuyerID != nil {
		sets = append(sets, "buyer_id = ?")
		args = append(args, *patch.BuyerID)
	}
	if patch.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *patch.Value)
	}
	if patch.AgreedDatetime != nil {
		sets = append(sets, "agreed_datetime = ?")
		args = append(args, *patch.AgreedDatetime)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, id)

		_, err := db.ExecContext(ctx,
			`UPDATE propositions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return nil, fmt.Errorf("updating proposition: %w", err)
		}
	}

	return GetProposition(ctx, db, id)
}

// DeleteProposition removes a proposition. Returns false if it did not exist.
func DeleteProposition(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM propositions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting proposition: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting proposition: %w", err)
	}
	return n > 0, nil
}

func collectPropositions(rows *sql.Rows) ([]model.Proposition, error) {
	var props []model.Proposition
	for rows.Next() {
		p, err := scanProposition(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning proposition: %w", err)
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

func scanProposition(scan func(...any) error) (*model.Proposition, error) {
	p := &model.Proposition{}
	var buyer sql.NullInt64
	err := scan(&p.ID, &p.SellerID, &buyer, &p.SneakerID, &p.Value, &p.AgreedDatetime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if buyer.Valid {
		p.BuyerID = &buyer.Int64
	}
	return p, nil
}
