package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// BookingSignature computes an HMAC over the booking's identity so a QR
// payload cannot be forged by editing ids.
func BookingSignature(bookingID, eventID, userID uuid.UUID, secret string) string {
	data := fmt.Sprintf("%s:%s:%s", bookingID, eventID, userID)
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// BookingQRPayload is the text encoded into a booking's QR code.
func BookingQRPayload(bookingID, eventID, userID uuid.UUID, secret string) string {
	return fmt.Sprintf("booking:%s;event:%s;signature:%s",
		bookingID, eventID, BookingSignature(bookingID, eventID, userID, secret))
}
