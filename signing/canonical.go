package signing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"licenseserver/models"
)

// CanonicalPayload serializes an entitlement response into the byte form the
// signature covers. The encoding is deliberately explicit: keys sorted, no
// extra whitespace, signature excluded, nil feature slices encoded as empty
// arrays. Signer and verifier must never disagree because of incidental field
// ordering or nil/empty drift.
func CanonicalPayload(resp models.EntitlementResponse) ([]byte, error) {
	features := resp.Features
	if features == nil {
		features = []string{}
	}

	fields := map[string]interface{}{
		"valid":       resp.Valid,
		"license_key": resp.LicenseKey,
		"expires_at":  resp.ExpiresAt,
		"features":    features,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, _ := json.Marshal(k)
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valueJSON, err := json.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
