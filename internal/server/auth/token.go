// Package auth implements the bearer-token codec. A token binds a user id
// to a signing secret derived from the user's current password hash:
//
//	base64url(decimal user_id) "." base64url(unix seconds) "." base64url(signature)
//
// Because the password hash is the signing key, changing a password silently
// invalidates every token issued before the change. That is the only
// session-revocation mechanism; there is no revocation list.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/parleychat/authcore/internal/common"
)

var enc = base64.RawURLEncoding

// Codec issues and verifies bearer tokens. maxAge of zero disables expiry.
type Codec struct {
	maxAge time.Duration
	now    func() time.Time
}

func NewCodec(maxAge time.Duration) *Codec {
	return &Codec{maxAge: maxAge, now: time.Now}
}

// Issue creates a token for the user signed with signingSecret (the user's
// current password hash).
func (c *Codec) Issue(userID int64, signingSecret string) string {
	idSeg := enc.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
	tsSeg := enc.EncodeToString([]byte(strconv.FormatInt(c.now().Unix(), 10)))
	payload := idSeg + "." + tsSeg
	return payload + "." + enc.EncodeToString(sign(payload, signingSecret))
}

// DecodeID extracts the embedded user id without verifying the signature.
// The id is only trustworthy after Verify succeeds; DecodeID exists so the
// caller can look up the signing secret for that user.
func DecodeID(token string) (int64, error) {
	seg, _, _ := strings.Cut(token, ".")
	raw, err := enc.DecodeString(seg)
	if err != nil {
		return 0, common.ErrInvalidCredential
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, common.ErrInvalidCredential
	}
	return id, nil
}

// Verify checks the token's signature and age against signingSecret and
// returns the embedded user id. Malformed tokens, bad signatures and
// expired timestamps all collapse to ErrInvalidCredential so callers cannot
// tell which check failed.
func (c *Codec) Verify(token, signingSecret string) (int64, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0, common.ErrInvalidCredential
	}

	id, err := DecodeID(token)
	if err != nil {
		return 0, err
	}

	sig, err := enc.DecodeString(parts[2])
	if err != nil {
		return 0, common.ErrInvalidCredential
	}
	want := sign(parts[0]+"."+parts[1], signingSecret)
	if subtle.ConstantTimeCompare(sig, want) != 1 {
		return 0, common.ErrInvalidCredential
	}

	// Signature is valid; the timestamp segment can be trusted now.
	rawTS, err := enc.DecodeString(parts[1])
	if err != nil {
		return 0, common.ErrInvalidCredential
	}
	ts, err := strconv.ParseInt(string(rawTS), 10, 64)
	if err != nil {
		return 0, common.ErrInvalidCredential
	}
	if c.maxAge > 0 && c.now().Sub(time.Unix(ts, 0)) > c.maxAge {
		return 0, common.ErrInvalidCredential
	}

	return id, nil
}

func sign(payload, signingSecret string) []byte {
	mac := hmac.New(sha256.New, []byte(signingSecret))
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}
