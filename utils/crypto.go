package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// License keys use the full uppercase alphanumeric alphabet. Keys are a
// trust-boundary secret, so every character comes from crypto/rand.
const licenseKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	defaultKeySegments      = 4
	defaultKeySegmentLength = 4
)

var licenseKeyPattern = regexp.MustCompile(`^[A-Z0-9]{4}(-[A-Z0-9]{4}){3}$`)

// GenerateLicenseKey produces a key in the default XXXX-XXXX-XXXX-XXXX format.
// Uniqueness is the caller's concern; the issuing service retries under the
// storage uniqueness check.
func GenerateLicenseKey() (string, error) {
	return GenerateLicenseKeyWithFormat(defaultKeySegments, defaultKeySegmentLength)
}

// GenerateLicenseKeyWithFormat produces a key as segments of
// cryptographically random alphabet characters joined by hyphens.
func GenerateLicenseKeyWithFormat(segments, segmentLength int) (string, error) {
	if segments < 1 || segmentLength < 1 {
		return "", fmt.Errorf("invalid key format: %d segments of %d", segments, segmentLength)
	}

	alphabetSize := big.NewInt(int64(len(licenseKeyAlphabet)))
	parts := make([]string, 0, segments)
	var sb strings.Builder

	for s := 0; s < segments; s++ {
		sb.Reset()
		for i := 0; i < segmentLength; i++ {
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("failed to read random source: %w", err)
			}
			sb.WriteByte(licenseKeyAlphabet[n.Int64()])
		}
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "-"), nil
}

// IsValidLicenseKeyFormat checks the fixed grouped key format without
// consulting storage.
func IsValidLicenseKeyFormat(key string) bool {
	return licenseKeyPattern.MatchString(key)
}

// GenerateID produces a random hex identifier, optionally prefixed
// ("lic", "dom", ...).
func GenerateID(prefix string) (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	id := hex.EncodeToString(bytes)
	if prefix != "" {
		return fmt.Sprintf("%s-%s", prefix, id[:16]), nil
	}
	return id[:16], nil
}

// HashPassword hashes an admin password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
