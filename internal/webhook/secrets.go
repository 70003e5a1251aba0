package webhook

import "strings"

// SecretResolver returns the signing secret for an event type.
// It must be pure: the same input always yields the same output.
type SecretResolver func(eventType string) (string, bool)

// StaticSecrets resolves per-event-type secrets first and falls back to defaultSecret.
// Blank secrets count as absent.
func StaticSecrets(defaultSecret string, perType map[string]string) SecretResolver {
	secrets := make(map[string]string, len(perType))
	for eventType, secret := range perType {
		if s := strings.TrimSpace(secret); s != "" {
			secrets[eventType] = s
		}
	}
	fallback := strings.TrimSpace(defaultSecret)

	return func(eventType string) (string, bool) {
		if s, ok := secrets[eventType]; ok {
			return s, true
		}
		if fallback != "" {
			return fallback, true
		}
		return "", false
	}
}
