package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Event types emitted by the identity provider that usersync handles.
const (
	EventUserCreated    = "user.created"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
	EventSessionCreated = "session.created"
)

// ErrValidation marks malformed event bodies and payloads. Callers map it to 400.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

// InboundEvent is a verified webhook delivery.
// It separates the "Envelope" (type, delivery metadata) from the "Letter" (Data).
type InboundEvent struct {
	// Type is the provider event name (e.g. "user.created"). Unknown types are valid.
	Type string `json:"type"`

	// Object is the provider's envelope discriminator, usually "event".
	Object string `json:"object,omitempty"`

	// Timestamp is the provider-side emission time in unix milliseconds, when present.
	Timestamp int64 `json:"timestamp,omitempty"`

	// Data is the type-specific payload. It is decoded lazily by the handler that owns the type.
	Data json.RawMessage `json:"data"`

	// DeliveryID is the svix-id header of the delivery, empty in test mode without headers.
	DeliveryID string `json:"-"`

	// ReceivedAt is when usersync received the request.
	// This should be set by the ingestion layer, not the sender.
	ReceivedAt time.Time `json:"-"`
}

// EmailAddress is one entry of a user's email address list.
type EmailAddress struct {
	ID           string `json:"id,omitempty"`
	EmailAddress string `json:"email_address"`
}

// LinkedAccount is a third-party identity attached to a user.
// Two accounts are the same iff (Provider, ProviderUserID) match; the rest are attributes.
type LinkedAccount struct {
	Provider          string `json:"provider" validate:"required"`
	ProviderUserID    string `json:"provider_user_id" validate:"required"`
	EmailAddress      string `json:"email_address,omitempty"`
	ProfileImageURL   string `json:"profile_image_url,omitempty"`
	Strategy          string `json:"strategy,omitempty"`
	ExternalAccountID string `json:"external_account_id,omitempty"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
}

// UserPayload is the data object of user.created and user.updated events.
type UserPayload struct {
	ID               string          `json:"id" validate:"required"`
	EmailAddresses   []EmailAddress  `json:"email_addresses"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Username         string          `json:"username"`
	ImageURL         string          `json:"image_url,omitempty"`
	ExternalAccounts []LinkedAccount `json:"external_accounts" validate:"dive"`
	CreatedAt        int64           `json:"created_at,omitempty"`
	UpdatedAt        int64           `json:"updated_at,omitempty"`
}

// PrimaryEmail returns the first non-blank address, or "" when the list is empty.
func (p *UserPayload) PrimaryEmail() string {
	for _, e := range p.EmailAddresses {
		if addr := strings.TrimSpace(e.EmailAddress); addr != "" {
			return addr
		}
	}
	return ""
}

// Validate ensures the payload carries the identity fields handlers depend on.
func (p *UserPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: invalid user payload: %v", ErrValidation, err)
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: invalid user payload: id is required", ErrValidation)
	}
	return nil
}

// DeletedPayload is the data object of user.deleted events.
type DeletedPayload struct {
	ID      string `json:"id" validate:"required"`
	Deleted bool   `json:"deleted"`
}

// Validate ensures the deleted user is identified.
func (p *DeletedPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: invalid deleted payload: %v", ErrValidation, err)
	}
	return nil
}

// SessionPayload is the data object of session.created events.
type SessionPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id" validate:"required"`
	Status string `json:"status,omitempty"`
}

// Validate ensures the session names its owning user.
func (p *SessionPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: invalid session payload: %v", ErrValidation, err)
	}
	return nil
}

// ParseEvent decodes a raw webhook body into an InboundEvent.
// The type is required; the data object is kept raw.
func ParseEvent(body []byte) (*InboundEvent, error) {
	var evt InboundEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("%w: invalid event body: %v", ErrValidation, err)
	}
	if strings.TrimSpace(evt.Type) == "" {
		return nil, fmt.Errorf("%w: invalid event body: type is required", ErrValidation)
	}
	return &evt, nil
}

// DecodeData unmarshals the event's data object into dst.
func (e *InboundEvent) DecodeData(dst interface{}) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return fmt.Errorf("%w: invalid payload: missing data", ErrValidation)
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrValidation, err)
	}
	return nil
}
