package services

import (
	"testing"

	"go.mau.fi/whatsmeow/types"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   string
	}{
		{"local prefix rewritten", "08123456789", "628123456789"},
		{"already international", "628123456789", "628123456789"},
		{"plus sign stripped", "+628123456789", "628123456789"},
		{"punctuation stripped", "0812-3456-789", "628123456789"},
		{"spaces stripped", "62 812 3456 789", "628123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jid := FormatPhoneNumber(tt.number)
			if jid.User != tt.want {
				t.Errorf("FormatPhoneNumber(%q).User = %q, want %q", tt.number, jid.User, tt.want)
			}
			if jid.Server != types.DefaultUserServer {
				t.Errorf("FormatPhoneNumber(%q).Server = %q, want %q", tt.number, jid.Server, types.DefaultUserServer)
			}
		})
	}
}
