package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is used when the configured iteration count is not
	// positive.
	DefaultIterations = 100_000

	keyLen  = 32 // SHA-256 output size
	saltLen = 16

	// maxIterationFactor bounds the iteration count a stored hash may carry,
	// relative to the configured one, so a corrupt record fails instead of
	// stalling the request on the KDF.
	maxIterationFactor = 10

	// hashScheme prefixes hashes that carry their own salt and iteration
	// count: pbkdf2_sha256$<iterations>$<b64 salt>$<b64 digest>.
	hashScheme = "pbkdf2_sha256"
)

// Hasher derives and verifies PBKDF2-HMAC-SHA256 password hashes.  It is
// immutable after construction and safe for concurrent use.
type Hasher struct {
	legacySalt []byte
	iterations int
}

// NewHasher builds a Hasher.  legacySalt is the process-wide salt used by
// hashes created before per-identity salts were introduced; when it is
// empty such hashes never verify.
func NewHasher(legacySalt string, iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{legacySalt: []byte(legacySalt), iterations: iterations}
}

// Iterations returns the iteration count used for new hashes.
func (h *Hasher) Iterations() int { return h.iterations }

// HashWithSalt returns the base64 encoded PBKDF2 digest of plain under the
// given salt.  The result is deterministic for a fixed salt and iteration
// count.
func (h *Hasher) HashWithSalt(plain string, salt []byte) string {
	return base64.StdEncoding.EncodeToString(derive(plain, salt, h.iterations))
}

// LegacyHash hashes plain with the process-wide salt, producing the bare
// base64 form older records were stored in.
func (h *Hasher) LegacyHash(plain string) string {
	return h.HashWithSalt(plain, h.legacySalt)
}

// Hash derives a storable hash of plain under a fresh random salt.  The salt
// and iteration count are encoded alongside the digest so Verify needs no
// outside parameters.
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	enc := base64.StdEncoding
	return strings.Join([]string{
		hashScheme,
		strconv.Itoa(h.iterations),
		enc.EncodeToString(salt),
		enc.EncodeToString(derive(plain, salt, h.iterations)),
	}, "$"), nil
}

// Verify reports whether plain matches stored.  A stored value that cannot
// be decoded is reported as a plain mismatch.
func (h *Hasher) Verify(plain, stored string) bool {
	if strings.HasPrefix(stored, hashScheme+"$") {
		salt, iterations, want, ok := parseHash(stored)
		if !ok || iterations > h.maxIterations() {
			return false
		}
		return subtle.ConstantTimeCompare(derive(plain, salt, iterations), want) == 1
	}
	if len(h.legacySalt) == 0 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(want) != keyLen {
		return false
	}
	return subtle.ConstantTimeCompare(derive(plain, h.legacySalt, h.iterations), want) == 1
}

func (h *Hasher) maxIterations() int {
	return maxIterationFactor * max(h.iterations, DefaultIterations)
}

func parseHash(stored string) (salt []byte, iterations int, digest []byte, ok bool) {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 {
		return nil, 0, nil, false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return nil, 0, nil, false
	}
	salt, err = base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return nil, 0, nil, false
	}
	digest, err = base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(digest) != keyLen {
		return nil, 0, nil, false
	}
	return salt, iterations, digest, true
}

func derive(plain string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
}
