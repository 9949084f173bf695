// Package signing computes keyed-hash signatures over entitlement responses
// so clients can trust cached responses without re-contacting the server.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"licenseserver/models"
)

// Signer holds the server-side secrets. The first secret signs new payloads;
// every secret is accepted during verification, which lets operators rotate
// the secret without invalidating responses cached under the previous one.
type Signer struct {
	secrets [][]byte
}

// New builds a Signer from an ordered secret list.
func New(secrets []string) (*Signer, error) {
	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		keys = append(keys, []byte(s))
	}

	if len(keys) == 0 {
		return nil, errors.New("signing requires at least one non-empty secret")
	}

	return &Signer{secrets: keys}, nil
}

// Sign computes the hex HMAC-SHA256 of payload under the current secret.
// Identical payloads always produce identical signatures.
func (s *Signer) Sign(payload []byte) string {
	return computeHMAC(payload, s.secrets[0])
}

// Verify recomputes the signature and compares in constant time. Signatures
// produced under any configured secret are accepted.
func (s *Signer) Verify(payload []byte, signature string) bool {
	for _, secret := range s.secrets {
		expected := computeHMAC(payload, secret)
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return true
		}
	}
	return false
}

// SignEntitlement attaches the signature computed over the canonical payload,
// which excludes the signature field itself.
func (s *Signer) SignEntitlement(resp *models.EntitlementResponse) error {
	payload, err := CanonicalPayload(*resp)
	if err != nil {
		return err
	}
	resp.Signature = s.Sign(payload)
	return nil
}

// VerifyEntitlement checks the signature carried by a response.
func (s *Signer) VerifyEntitlement(resp models.EntitlementResponse) bool {
	payload, err := CanonicalPayload(resp)
	if err != nil {
		return false
	}
	return s.Verify(payload, resp.Signature)
}

func computeHMAC(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
