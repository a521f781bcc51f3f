package domain

import (
	"strings"
	"time"
)

// Role is the closed set of admin roles. Only the constants below are
// valid; use ParseRole at every boundary that reads a role from outside.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole converts a stored or transmitted role name into a Role
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleSuperAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}

// CanManageAdmins reports whether the role may create or delete admin accounts
func (r Role) CanManageAdmins() bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

// NeedsBroadcastApproval reports whether a broadcast by this role must carry
// an approval code issued to the super-admin
func (r Role) NeedsBroadcastApproval() bool {
	switch r {
	case RoleSuperAdmin:
		return false
	case RoleAdmin:
		return true
	}
	return true
}

// Identity is the authenticated admin behind a request
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Email is one outbound message handed to the mail collaborator
type Email struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

// CheckoutRequest describes a hosted checkout the payment collaborator should open
type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Email       string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the payment collaborator's view of a checkout.
// PaymentStatus and Metadata are trusted verbatim.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url,omitempty"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}

// PaymentStatusPaid is the collaborator's status for a settled checkout
const PaymentStatusPaid = "paid"
