// Package account stores shopper profiles used to prefill checkout.
package account

import (
	"time"

	"github.com/imrishuroy/fybyshop/internal/orders"
)

type Preferences struct {
	Newsletter bool `json:"newsletter" dynamodbav:"newsletter"`
	SMS        bool `json:"sms" dynamodbav:"sms"`
	Email      bool `json:"email" dynamodbav:"email"`
}

// Profile is the item stored in the profiles table.
type Profile struct {
	UserID      string          `json:"id" dynamodbav:"user_id"` // PK
	FirstName   string          `json:"firstName" dynamodbav:"first_name"`
	LastName    string          `json:"lastName" dynamodbav:"last_name"`
	Email       string          `json:"email" dynamodbav:"email"`
	Phone       string          `json:"phone" dynamodbav:"phone"`
	Address     *orders.Address `json:"address" dynamodbav:"address"`
	Preferences Preferences     `json:"preferences" dynamodbav:"preferences"`
	CreatedAt   time.Time       `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" dynamodbav:"updated_at"`
}

// Update carries the editable profile fields. Nil fields are left unchanged;
// a non-nil ClearAddress set to true removes the saved address.
type Update struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Address      *orders.Address
	ClearAddress bool
	Preferences  *Preferences
}

func (u Update) apply(p *Profile) {
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.ClearAddress {
		p.Address = nil
	} else if u.Address != nil {
		addr := *u.Address
		p.Address = &addr
	}
	if u.Preferences != nil {
		p.Preferences = *u.Preferences
	}
}

// CustomerInfo seeds the checkout customer form from the profile.
func (p *Profile) CustomerInfo() *orders.CustomerInfo {
	if p == nil {
		return nil
	}
	info := &orders.CustomerInfo{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
	}
	if p.Address != nil {
		addr := *p.Address
		info.Address = &addr
	}
	return info
}
