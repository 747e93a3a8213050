package domain

import (
	"errors"
	"time"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrInvalidID     = errors.New("the id is not valid")
	ErrForbidden     = errors.New("caller is not a party to the trade")
)

type Trade struct {
	ID                 string
	UserID             string
	PartnerID          string
	Date               time.Time
	ServiceDescription string
	Amount             float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasParty reports whether userID is the initiator or the partner.
func (t *Trade) HasParty(userID string) bool {
	return userID != "" && (t.UserID == userID || t.PartnerID == userID)
}

// TradeView is a trade joined with its partner's current profile.
type TradeView struct {
	Trade
	PartnerFirstName  string
	PartnerLastName   string
	PartnerProfession string
}

func (v *TradeView) PartnerFullName() string {
	p := User{FirstName: v.PartnerFirstName, LastName: v.PartnerLastName}
	return p.FullName()
}

// TradePatch holds the mutable trade fields. Nil means unchanged.
type TradePatch struct {
	Date               *time.Time
	ServiceDescription *string
	Amount             *float64
}

func (p TradePatch) Empty() bool {
	return p.Date == nil && p.ServiceDescription == nil && p.Amount == nil
}
