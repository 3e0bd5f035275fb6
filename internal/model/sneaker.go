package model

import (
	"errors"
	"time"
)

// Sneaker represents a single inventory record owned by a user.
type Sneaker struct {
	ID            int64      `json:"id"`
	SKU           string     `json:"sku"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	Size          float64    `json:"size"`
	Color         string     `json:"color,omitempty"`
	PurchasePrice *float64   `json:"purchase_price,omitempty"`
	Description   string     `json:"description,omitempty"`
	PhotoMime     string     `json:"photo_mime,omitempty"`
	UserID        int64      `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// SneakerDraft holds the user-supplied fields of a new sneaker.
// Ownership is never part of the draft: the server derives it from the
// authenticated token.
type SneakerDraft struct {
	SKU           string   `json:"sku"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Size          float64  `json:"size"`
	Color         string   `json:"color,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// SneakerPatch is a partial update. Nil fields are left untouched.
type SneakerPatch struct {
	SKU           *string  `json:"sku,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
	Model         *string  `json:"model,omitempty"`
	Size          *float64 `json:"size,omitempty"`
	Color         *string  `json:"color,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// Validate checks the draft's required fields and numeric bounds.
func (d *SneakerDraft) Validate() error {
	if d.SKU == "" {
		return errors.New("sku required")
	}
	if d.Brand == "" {
		return errors.New("brand required")
	}
	if d.Model == "" {
		return errors.New("model required")
	}
	if d.Size <= 0 {
		return errors.New("size must be greater than zero")
	}
	if d.PurchasePrice != nil && *d.PurchasePrice <= 0 {
		return errors.New("purchase_price must be greater than zero")
	}
	return nil
}

// Validate checks that the provided patch fields are acceptable.
func (p *SneakerPatch) Validate() error {
	if p.SKU != nil && *p.SKU == "" {
		return errors.New("sku cannot be empty")
	}
	if p.Brand != nil && *p.Brand == "" {
		return errors.New("brand cannot be empty")
	}
	if p.Model != nil && *p.Model == "" {
		return errors.New("model cannot be empty")
	}
	if p.Size != nil && *p.Size <= 0 {
		return errors.New("size must be greater than zero")
	}
	if p.PurchasePrice != nil && *p.PurchasePrice <= 0 {
		return errors.New("purchase_price must be greater than zero")
	}
	return nil
}

// Empty reports whether the patch carries no fields at all.
func (p *SneakerPatch) Empty() bool {
	return p.SKU == nil && p.Brand == nil && p.Model == nil && p.Size == nil &&
		p.Color == nil && p.PurchasePrice == nil && p.Description == nil
}
