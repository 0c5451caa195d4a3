// Package identity keeps local applicant profiles in step with the external
// identity provider's user lifecycle webhooks.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// ErrInvalidEvent is returned for payloads that do not match the event envelope.
var ErrInvalidEvent = errors.New("invalid identity event")

const envelopeSchemaJSON = `{
	"type": "object",
	"required": ["type", "data"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"data": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"first_name": {"type": ["string", "null"]},
				"last_name": {"type": ["string", "null"]},
				"image_url": {"type": ["string", "null"]},
				"email_addresses": {
					"type": ["array", "null"],
					"items": {
						"type": "object",
						"properties": {"email_address": {"type": "string"}}
					}
				}
			}
		}
	}
}`

var envelopeSchema = mustSchema(envelopeSchemaJSON)

type Event struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

type UserData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// DisplayName joins the name parts, falling back to "User" when both are empty.
func (d UserData) DisplayName() string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return "User"
	}
	return name
}

// PrimaryEmail is the first listed address or "".
func (d UserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// ParseEvent validates payload against the envelope schema and decodes it.
func ParseEvent(ctx context.Context, payload []byte) (*Event, error) {
	keyErrs, err := envelopeSchema.ValidateBytes(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if len(keyErrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEvent, keyErrs[0].Error())
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return &ev, nil
}

func mustSchema(raw string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(fmt.Sprintf("compile identity event schema: %v", err))
	}
	return rs
}
