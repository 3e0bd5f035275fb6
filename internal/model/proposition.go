package model

import (
	"errors"
	"time"
)

// Proposition represents a sale offer for a sneaker. An open proposition
// has no buyer yet; once agreed_datetime is set the deal is final and the
// record becomes immutable.
type Proposition struct {
	ID             int64      `json:"id"`
	SellerID       int64      `json:"seller_id"`
	BuyerID        *int64     `json:"buyer_id,omitempty"`
	SneakerID      int64      `json:"sneaker_id"`
	Value          float64    `json:"value"`
	AgreedDatetime *time.Time `json:"agreed_datetime,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Open reports whether the proposition has no designated buyer.
func (p *Proposition) Open() bool {
	return p.BuyerID == nil
}

// Agreed reports whether the deal has been finalized.
func (p *Proposition) Agreed() bool {
	return p.AgreedDatetime != nil
}

// PartyAccess reports whether the given user may read or modify the
// proposition. Open propositions are readable by everyone.
func (p *Proposition) PartyAccess(userID int64) bool {
	if userID == p.SellerID {
		return true
	}
	return p.BuyerID != nil && *p.BuyerID == userID
}

// PropositionDraft holds the fields of a new proposition.
type PropositionDraft struct {
	SellerID       int64      `json:"seller_id"`
	BuyerID        *int64     `json:"buyer_id,omitempty"`
	SneakerID      int64      `json:"sneaker_id"`
	Value          float64    `json:"value"`
	AgreedDatetime *time.Time `json:"agreed_datetime,omitempty"`
}

// PropositionPatch is a partial update. Nil fields are left untouched.
type PropositionPatch struct {
	BuyerID        *int64     `json:"buyer_id,omitempty"`
	Value          *float64   `json:"value,omitempty"`
	AgreedDatetime *time.Time `json:"agreed_datetime,omitempty"`
}

// Validate checks the draft's required fields and numeric bounds.
func (d *PropositionDraft) Validate() error {
	if d.SneakerID == 0 {
		return errors.New("sneaker_id required")
	}
	if d.Value <= 0 {
		return errors.New("value must be greater than zero")
	}
	if d.BuyerID != nil && *d.BuyerID == d.SellerID {
		return errors.New("seller and buyer must be different users")
	}
	return nil
}

// Validate checks that the provided patch fields are acceptable.
func (p *PropositionPatch) Validate() error {
	if p.Value != nil && *p.Value <= 0 {
		return errors.New("value must be greater than zero")
	}
	return nil
}
