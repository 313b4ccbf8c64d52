package services

import (
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// FormatPhoneNumber normalizes a phone number into the JID the messaging
// network expects: digits only, Indonesian local prefix 0 rewritten to 62.
func FormatPhoneNumber(number string) types.JID {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if strings.HasPrefix(digits, "0") {
		digits = "62" + digits[1:]
	}

	return types.NewJID(digits, types.DefaultUserServer)
}
