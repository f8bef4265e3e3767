// Package totp implements time-based one-time codes (RFC 6238) over a
// base32 shared secret. The account core treats this as an opaque oracle:
// generate a secret once, then verify live codes against it.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const secretBytes = 20

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Oracle generates and verifies time-based codes. The zero value is not
// usable; use New.
type Oracle struct {
	digits int
	period int
	skew   int // accepted steps either side of now
	issuer string
}

func New(issuer string) *Oracle {
	return &Oracle{digits: 6, period: 30, skew: 1, issuer: issuer}
}

// GenerateSecret returns a fresh shared secret encoded as unpadded base32.
func (o *Oracle) GenerateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return b32.EncodeToString(raw), nil
}

// ProvisionURI renders the otpauth:// URI enrolled by authenticator apps.
func (o *Oracle) ProvisionURI(secret, account string) string {
	label := url.PathEscape(o.issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", o.issuer)
	v.Set("period", strconv.Itoa(o.period))
	v.Set("digits", strconv.Itoa(o.digits))
	v.Set("algorithm", "SHA1")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// Now returns the code for the current time step.
func (o *Oracle) Now(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotpCode(key, now.Unix()/int64(o.period), o.digits), nil
}

// Verify reports whether code is valid for the secret at the given time,
// allowing the configured step skew. Comparison is constant-time.
func (o *Oracle) Verify(secret, code string, now time.Time) (bool, error) {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != o.digits || !isNumeric(trimmed) {
		return false, nil
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	base := now.Unix() / int64(o.period)
	for step := -o.skew; step <= o.skew; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		generated := hotpCode(key, counter, o.digits)
		if subtle.ConstantTimeCompare([]byte(generated), []byte(trimmed)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

func decodeSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimRight(secret, "="))
	key, err := b32.DecodeString(normalized)
	if err != nil || len(key) == 0 {
		return nil, errors.New("invalid totp secret")
	}
	return key, nil
}

func hotpCode(key []byte, counter int64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, bin%mod)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
