package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterInput(t *testing.T) {
	strong := "Str0ng&Secret!"

	tests := []struct {
		name       string
		givenName  string
		familyName string
		email      string
		password   string
		confirm    string
		wantFields []string
	}{
		{
			name:      "valid input",
			givenName: "Ada", familyName: "Lovelace",
			email: "ada@example.com", password: strong, confirm: strong,
		},
		{
			name:       "missing names",
			email:      "ada@example.com",
			password:   strong,
			confirm:    strong,
			wantFields: []string{"given_name", "family_name"},
		},
		{
			name:      "bad email",
			givenName: "Ada", familyName: "Lovelace",
			email: "not-an-email", password: strong, confirm: strong,
			wantFields: []string{"email"},
		},
		{
			name:      "weak password",
			givenName: "Ada", familyName: "Lovelace",
			email: "ada@example.com", password: "short", confirm: "short",
			wantFields: []string{"password"},
		},
		{
			name:      "mismatched confirmation",
			givenName: "Ada", familyName: "Lovelace",
			email: "ada@example.com", password: strong, confirm: strong + "x",
			wantFields: []string{"confirm_password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateRegisterInput(tt.givenName, tt.familyName, tt.email, tt.password, tt.confirm)
			assert.Len(t, errs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}
