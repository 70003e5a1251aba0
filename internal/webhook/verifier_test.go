package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/stretchr/testify/require"
)

var (
	testSecret  = "whsec_" + base64.StdEncoding.EncodeToString([]byte("usersync-test-signing-key"))
	otherSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("another-signing-key"))
	fixedNow    = time.Unix(1760400000, 0)
)

const createdBody = `{"type":"user.created","object":"event","data":{"id":"user_1"}}`

func newTestVerifier(opts Options) *Verifier {
	if opts.Secrets == nil {
		opts.Secrets = StaticSecrets(testSecret, nil)
	}
	opts.Now = func() time.Time { return fixedNow }
	return NewVerifier(opts)
}

func signedHeaders(t *testing.T, secret, id string, ts time.Time, body string) http.Header {
	t.Helper()

	sig, err := Sign(secret, id, ts, []byte(body))
	require.NoError(t, err)

	h := http.Header{}
	h.Set(HeaderID, id)
	h.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderSignature, sig)
	return h
}

func requireAuthReason(t *testing.T, err error, reason string) {
	t.Helper()

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	require.Equal(t, reason, authErr.Reason)
}

func TestVerifier_ValidSignature(t *testing.T) {
	v := newTestVerifier(Options{})
	headers := signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)

	evt, err := v.Verify([]byte(createdBody), headers)
	require.NoError(t, err)
	require.Equal(t, v1.EventUserCreated, evt.Type)
	require.Equal(t, "msg_1", evt.DeliveryID)
	require.JSONEq(t, `{"id":"user_1"}`, string(evt.Data))
}

func TestVerifier_MatchesSignatureAgainstManualHMAC(t *testing.T) {
	key := []byte("usersync-test-signing-key")
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("msg_1." + strconv.FormatInt(fixedNow.Unix(), 10) + "." + createdBody))
	want := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	got, err := Sign(testSecret, "msg_1", fixedNow, []byte(createdBody))
	require.NoError(t, err)
	require.Equal(t, want, got)

	// The whsec_ prefix is optional.
	unprefixed, err := Sign(base64.StdEncoding.EncodeToString(key), "msg_1", fixedNow, []byte(createdBody))
	require.NoError(t, err)
	require.Equal(t, want, unprefixed)
}

func TestVerifier_AnyListedSignatureMatches(t *testing.T) {
	v := newTestVerifier(Options{})
	headers := signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)

	stale, err := Sign(otherSecret, "msg_1", fixedNow, []byte(createdBody))
	require.NoError(t, err)
	headers.Set(HeaderSignature, "v2,ignored "+stale+" "+headers.Get(HeaderSignature))

	_, err = v.Verify([]byte(createdBody), headers)
	require.NoError(t, err)
}

func TestVerifier_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		headers func(t *testing.T) http.Header
		body    string
		reason  string
	}{
		{
			name: "missing headers",
			headers: func(t *testing.T) http.Header {
				return http.Header{}
			},
			body:   createdBody,
			reason: ReasonMissingHeaders,
		},
		{
			name: "missing signature only",
			headers: func(t *testing.T) http.Header {
				h := signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)
				h.Del(HeaderSignature)
				return h
			},
			body:   createdBody,
			reason: ReasonMissingHeaders,
		},
		{
			name: "no secret configured",
			opts: Options{Secrets: StaticSecrets("", nil)},
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)
			},
			body:   createdBody,
			reason: ReasonNoSecret,
		},
		{
			name: "tampered body",
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)
			},
			body:   `{"type":"user.created","data":{"id":"user_2"}}`,
			reason: ReasonMismatch,
		},
		{
			name: "wrong secret",
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, otherSecret, "msg_1", fixedNow, createdBody)
			},
			body:   createdBody,
			reason: ReasonMismatch,
		},
		{
			name: "timestamp too old",
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, testSecret, "msg_1", fixedNow.Add(-10*time.Minute), createdBody)
			},
			body:   createdBody,
			reason: ReasonStaleTimestamp,
		},
		{
			name: "timestamp in the future",
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, testSecret, "msg_1", fixedNow.Add(10*time.Minute), createdBody)
			},
			body:   createdBody,
			reason: ReasonStaleTimestamp,
		},
		{
			name: "timestamp not an integer",
			headers: func(t *testing.T) http.Header {
				h := signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)
				h.Set(HeaderTimestamp, "yesterday")
				return h
			},
			body:   createdBody,
			reason: ReasonInvalidTimestamp,
		},
		{
			name: "secret not base64",
			opts: Options{Secrets: StaticSecrets("whsec_***not-base64***", nil)},
			headers: func(t *testing.T) http.Header {
				return signedHeaders(t, testSecret, "msg_1", fixedNow, createdBody)
			},
			body:   createdBody,
			reason: ReasonInvalidSecret,
		},
		{
			name: "test header ignored unless allowed",
			headers: func(t *testing.T) http.Header {
				h := http.Header{}
				h.Set(HeaderTestMode, "true")
				return h
			},
			body:   createdBody,
			reason: ReasonMissingHeaders,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestVerifier(tc.opts)
			evt, err := v.Verify([]byte(tc.body), tc.headers(t))
			require.Nil(t, evt)
			requireAuthReason(t, err, tc.reason)
		})
	}
}

func TestVerifier_PerEventTypeSecret(t *testing.T) {
	updatedBody := `{"type":"user.updated","data":{"id":"user_1"}}`
	v := newTestVerifier(Options{
		Secrets: StaticSecrets(testSecret, map[string]string{v1.EventUserUpdated: otherSecret}),
	})

	_, err := v.Verify([]byte(updatedBody), signedHeaders(t, otherSecret, "msg_2", fixedNow, updatedBody))
	require.NoError(t, err)

	// The default secret no longer verifies an event type with its own secret.
	_, err = v.Verify([]byte(updatedBody), signedHeaders(t, testSecret, "msg_3", fixedNow, updatedBody))
	requireAuthReason(t, err, ReasonMismatch)

	_, err = v.Verify([]byte(createdBody), signedHeaders(t, testSecret, "msg_4", fixedNow, createdBody))
	require.NoError(t, err)
}

func TestVerifier_MalformedBodyAfterVerification(t *testing.T) {
	v := newTestVerifier(Options{})
	body := `{"data":{"id":"user_1"}}`

	_, err := v.Verify([]byte(body), signedHeaders(t, testSecret, "msg_1", fixedNow, body))
	require.ErrorIs(t, err, v1.ErrValidation)

	var authErr *AuthError
	require.False(t, errors.As(err, &authErr))
}

func TestVerifier_UnparseableBodyUsesDefaultSecret(t *testing.T) {
	v := newTestVerifier(Options{
		Secrets: StaticSecrets(testSecret, map[string]string{v1.EventUserCreated: otherSecret}),
	})
	body := `not json`

	_, err := v.Verify([]byte(body), signedHeaders(t, testSecret, "msg_1", fixedNow, body))
	require.ErrorIs(t, err, v1.ErrValidation)

	_, err = v.Verify([]byte(body), signedHeaders(t, otherSecret, "msg_2", fixedNow, body))
	requireAuthReason(t, err, ReasonMismatch)
}

func TestVerifier_TestMode(t *testing.T) {
	t.Run("process flag skips verification", func(t *testing.T) {
		v := newTestVerifier(Options{TestMode: true, Secrets: StaticSecrets("", nil)})

		evt, err := v.Verify([]byte(createdBody), http.Header{})
		require.NoError(t, err)
		require.Equal(t, v1.EventUserCreated, evt.Type)
		require.Empty(t, evt.DeliveryID)
	})

	t.Run("allowed header skips verification", func(t *testing.T) {
		v := newTestVerifier(Options{AllowTestHeader: true})
		h := http.Header{}
		h.Set(HeaderTestMode, "true")
		h.Set(HeaderID, "msg_test")

		evt, err := v.Verify([]byte(createdBody), h)
		require.NoError(t, err)
		require.Equal(t, "msg_test", evt.DeliveryID)
	})

	t.Run("allowed header with other value still verifies", func(t *testing.T) {
		v := newTestVerifier(Options{AllowTestHeader: true})
		h := http.Header{}
		h.Set(HeaderTestMode, "false")

		_, err := v.Verify([]byte(createdBody), h)
		requireAuthReason(t, err, ReasonMissingHeaders)
	})

	t.Run("test mode still rejects malformed bodies", func(t *testing.T) {
		v := newTestVerifier(Options{TestMode: true})

		_, err := v.Verify([]byte(`not json`), http.Header{})
		require.ErrorIs(t, err, v1.ErrValidation)
	})
}

func TestStaticSecrets(t *testing.T) {
	resolve := StaticSecrets(" default ", map[string]string{
		v1.EventUserCreated: "created",
		v1.EventUserUpdated: "   ",
	})

	secret, ok := resolve(v1.EventUserCreated)
	require.True(t, ok)
	require.Equal(t, "created", secret)

	secret, ok = resolve(v1.EventUserUpdated)
	require.True(t, ok)
	require.Equal(t, "default", secret)

	secret, ok = resolve("org.renamed")
	require.True(t, ok)
	require.Equal(t, "default", secret)

	_, ok = StaticSecrets("", nil)(v1.EventUserCreated)
	require.False(t, ok)
}
