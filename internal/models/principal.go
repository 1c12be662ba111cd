package models

import "github.com/google/uuid"

// Principal is the authenticated caller as supplied by the external
// identity provider: an id plus an admin capability flag. Nothing else
// about the user is modeled here.
type Principal struct {
	ID      uuid.UUID
	IsAdmin bool
}

// CanAccessBooking reports whether the principal may read or act on the
// given booking: owners and admins only.
func (p Principal) CanAccessBooking(b *Booking) bool {
	return p.IsAdmin || b.UserID == p.ID
}
