package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/garnizeh/jobboard/internal/identity"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantErr   bool
		wantName  string
		wantEmail string
	}{
		{
			name:      "FullProfile",
			payload:   `{"type":"user.created","data":{"id":"user_1","first_name":"Ada","last_name":"Lovelace","image_url":"https://img/a.png","email_addresses":[{"email_address":"ada@example.com"},{"email_address":"other@example.com"}]}}`,
			wantName:  "Ada Lovelace",
			wantEmail: "ada@example.com",
		},
		{
			name:      "FirstNameOnly",
			payload:   `{"type":"user.updated","data":{"id":"user_1","first_name":"Ada","last_name":null}}`,
			wantName:  "Ada",
			wantEmail: "",
		},
		{
			name:      "NoNameParts",
			payload:   `{"type":"user.created","data":{"id":"user_1","first_name":"","last_name":"","email_addresses":[]}}`,
			wantName:  "User",
			wantEmail: "",
		},
		{name: "MissingType", payload: `{"data":{"id":"user_1"}}`, wantErr: true},
		{name: "MissingID", payload: `{"type":"user.deleted","data":{}}`, wantErr: true},
		{name: "EmptyID", payload: `{"type":"user.deleted","data":{"id":""}}`, wantErr: true},
		{name: "WrongShape", payload: `{"type":"user.created","data":"user_1"}`, wantErr: true},
		{name: "NotJSON", payload: `not json`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := identity.ParseEvent(context.Background(), []byte(tc.payload))
			if tc.wantErr {
				if !errors.Is(err, identity.ErrInvalidEvent) {
					t.Fatalf("expected ErrInvalidEvent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEvent: %v", err)
			}
			if got := ev.Data.DisplayName(); got != tc.wantName {
				t.Errorf("name: got %q want %q", got, tc.wantName)
			}
			if got := ev.Data.PrimaryEmail(); got != tc.wantEmail {
				t.Errorf("email: got %q want %q", got, tc.wantEmail)
			}
		})
	}
}
