package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
)

// Svix delivery headers.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"

	// HeaderTestMode skips verification when the verifier is configured to honor it.
	HeaderTestMode = "x-test-mode"
)

const (
	secretPrefix     = "whsec_"
	signatureVersion = "v1"

	// DefaultTolerance is the accepted skew between svix-timestamp and the local clock.
	DefaultTolerance = 5 * time.Minute
)

// Options configures a Verifier.
type Options struct {
	Secrets SecretResolver

	// TestMode disables verification for every request.
	TestMode bool

	// AllowTestHeader lets a request opt out of verification with "x-test-mode: true".
	AllowTestHeader bool

	Tolerance time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Verifier authenticates raw webhook deliveries and decodes them into events.
// It has no side effects beyond parsing and is safe for concurrent use.
type Verifier struct {
	secrets         SecretResolver
	testMode        bool
	allowTestHeader bool
	tolerance       time.Duration
	now             func() time.Time
}

func NewVerifier(opts Options) *Verifier {
	secrets := opts.Secrets
	if secrets == nil {
		secrets = func(string) (string, bool) { return "", false }
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		secrets:         secrets,
		testMode:        opts.TestMode,
		allowTestHeader: opts.AllowTestHeader,
		tolerance:       tolerance,
		now:             now,
	}
}

// Verify checks the svix signature of body and returns the decoded event.
// Authentication failures are *AuthError; a verified but malformed body wraps v1.ErrValidation.
func (v *Verifier) Verify(body []byte, headers http.Header) (*v1.InboundEvent, error) {
	if v.skipVerification(headers) {
		slog.Info("[Webhook] Test mode, skipping signature verification")
		evt, err := v1.ParseEvent(body)
		if err != nil {
			return nil, err
		}
		evt.DeliveryID = headers.Get(HeaderID)
		return evt, nil
	}

	id := headers.Get(HeaderID)
	timestamp := headers.Get(HeaderTimestamp)
	signatures := headers.Get(HeaderSignature)
	if id == "" || timestamp == "" || signatures == "" {
		return nil, &AuthError{Reason: ReasonMissingHeaders}
	}

	// The type is read before verification only to pick the secret. A body that
	// does not parse resolves the default secret and fails on the signature.
	var peek struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(body, &peek)

	secret, ok := v.secrets(peek.Type)
	if !ok {
		return nil, &AuthError{Reason: ReasonNoSecret}
	}
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, &AuthError{Reason: ReasonInvalidSecret}
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return nil, &AuthError{Reason: ReasonInvalidTimestamp}
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return nil, &AuthError{Reason: ReasonStaleTimestamp}
	}

	expected := []byte(sign(key, id, timestamp, body))
	if !matchesAny(expected, signatures) {
		return nil, &AuthError{Reason: ReasonMismatch}
	}

	evt, err := v1.ParseEvent(body)
	if err != nil {
		return nil, err
	}
	evt.DeliveryID = id
	return evt, nil
}

func (v *Verifier) skipVerification(headers http.Header) bool {
	if v.testMode {
		return true
	}
	return v.allowTestHeader && strings.EqualFold(strings.TrimSpace(headers.Get(HeaderTestMode)), "true")
}

// Sign returns a svix-signature header value ("v1,<base64>") for body.
func Sign(secret, id string, timestamp time.Time, body []byte) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", fmt.Errorf("invalid secret: %w", err)
	}
	return signatureVersion + "," + sign(key, id, strconv.FormatInt(timestamp.Unix(), 10), body), nil
}

func decodeSecret(secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(strings.TrimSpace(secret), secretPrefix))
}

func sign(key []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// matchesAny compares expected against every "v1,<sig>" entry of the header.
// Entries of other versions are ignored.
func matchesAny(expected []byte, header string) bool {
	for _, entry := range strings.Fields(header) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != signatureVersion {
			continue
		}
		if hmac.Equal(expected, []byte(sig)) {
			return true
		}
	}
	return false
}
