// Package password provides one-way password hashing and verification using
// argon2id. Hashes are stored in PHC string format, so parameters travel
// with the hash and can be tuned without invalidating existing records.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// ErrMalformedHash is returned by Verify when the stored hash cannot be
// parsed as an argon2id PHC string.
var ErrMalformedHash = errors.New("malformed password hash")

// Config holds argon2id cost parameters.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns interactive-login cost parameters.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 hashes and verifies passwords. The zero value is not usable; use
// New.
type Argon2 struct {
	config Config
}

func New(cfg Config) *Argon2 {
	return &Argon2{config: cfg}
}

// Hash derives an argon2id hash of password with a fresh random salt and
// returns it encoded as a PHC string.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the encoded hash. The comparison
// is constant-time. Parameters are taken from the hash itself.
func (a *Argon2) Verify(password, encoded string) (bool, error) {
	memory, time, parallelism, salt, want, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parsePHC(encoded string) (memory, time uint32, parallelism uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		err = ErrMalformedHash
		return
	}

	var version int
	if _, scanErr := fmt.Sscanf(parts[2], "v=%d", &version); scanErr != nil || version != argon2.Version {
		err = ErrMalformedHash
		return
	}

	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		err = ErrMalformedHash
		return
	}
	m, mErr := parseParam(params[0], "m")
	t, tErr := parseParam(params[1], "t")
	p, pErr := parseParam(params[2], "p")
	if mErr != nil || tErr != nil || pErr != nil || p > 255 {
		err = ErrMalformedHash
		return
	}

	salt, saltErr := base64.RawStdEncoding.DecodeString(parts[4])
	hash, hashErr := base64.RawStdEncoding.DecodeString(parts[5])
	if saltErr != nil || hashErr != nil || len(salt) == 0 || len(hash) == 0 {
		err = ErrMalformedHash
		return
	}

	return uint32(m), uint32(t), uint8(p), salt, hash, nil
}

func parseParam(s, name string) (uint64, error) {
	prefix := name + "="
	if !strings.HasPrefix(s, prefix) {
		return 0, ErrMalformedHash
	}
	return strconv.ParseUint(strings.TrimPrefix(s, prefix), 10, 32)
}
