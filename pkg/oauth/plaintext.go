package oauth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Package oauth builds OAuth 1.0 PLAINTEXT Authorization headers. The Trade Me
// API accepts PLAINTEXT over TLS only; the "signature" is the joined secrets,
// never an HMAC.

const (
	// SignatureMethod is sent verbatim in oauth_signature_method.
	SignatureMethod = "PLAINTEXT"
	// Version is sent verbatim in oauth_version.
	Version = "1.0"

	nonceBytes = 16
)

// Credentials carries the four OAuth credential strings for a principal.
// Values are used as-is; encoding happens at header-construction time.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	TokenSecret    string
}

// Validate checks that every credential field is a usable non-blank string.
func (c Credentials) Validate() error {
	fields := map[string]string{
		"consumer key":    c.ConsumerKey,
		"consumer secret": c.ConsumerSecret,
		"access token":    c.AccessToken,
		"token secret":    c.TokenSecret,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("oauth %s is empty", name)
		}
	}
	return nil
}

// HeaderSigner produces a fresh Authorization header value per request.
// Safe for concurrent use: it holds only immutable credentials and pure
// nonce/clock sources.
type HeaderSigner struct {
	creds Credentials
	nonce func() (string, error)
	now   func() time.Time
}

// NewHeaderSigner builds a signer over the given credentials.
func NewHeaderSigner(creds Credentials) *HeaderSigner {
	return &HeaderSigner{
		creds: creds,
		nonce: randomNonce,
		now:   time.Now,
	}
}

// AuthorizationHeader returns a complete `OAuth ...` header value with a fresh
// nonce and timestamp. Exactly seven oauth_* fields are emitted.
func (s *HeaderSigner) AuthorizationHeader() (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ts := strconv.FormatInt(s.now().Unix(), 10)

	fields := []struct {
		name  string
		value string
	}{
		{"oauth_consumer_key", PercentEncode(s.creds.ConsumerKey)},
		{"oauth_nonce", nonce},
		{"oauth_signature", Signature(s.creds.ConsumerSecret, s.creds.TokenSecret)},
		{"oauth_signature_method", SignatureMethod},
		{"oauth_timestamp", ts},
		{"oauth_token", PercentEncode(s.creds.AccessToken)},
		{"oauth_version", Version},
	}

	var b strings.Builder
	b.WriteString("OAuth ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.name)
		b.WriteString(`="`)
		b.WriteString(f.value)
		b.WriteString(`"`)
	}
	return b.String(), nil
}

// Signature returns the PLAINTEXT signature: the two percent-encoded secrets
// joined by "&". The result is inserted into the header literally, without a
// second round of encoding.
func Signature(consumerSecret, tokenSecret string) string {
	return PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
}

// PercentEncode applies RFC 3986 percent-encoding as required by OAuth 1.0:
// unreserved characters pass through, everything else becomes uppercase %XX.
// url.QueryEscape is unsuitable here (space becomes "+").
func PercentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// randomNonce returns a hex token from crypto/rand. 16 bytes keeps the
// collision probability negligible across any realistic call volume.
func randomNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
