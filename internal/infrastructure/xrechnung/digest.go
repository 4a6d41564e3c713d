package xrechnung

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// Canonicalize returns the Canonical XML 1.0 form of data.
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	dec.CharsetReader = charsetReader
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("xrechnung: canonicalize: %w", err)
	}
	return out, nil
}

// Digest is the hex SHA-256 of the canonical form. Archived invoices keep it so
// that a later download can be checked against the issued document.
func Digest(data []byte) (string, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
