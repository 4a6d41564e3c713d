package xrechnung

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// BundleEntry is one file inside a download bundle.
type BundleEntry struct {
	Name    string
	Content []byte
}

// Bundle packs the entries into an in-memory ZIP archive, in order.
func Bundle(entries ...BundleEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		fw, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create entry %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Content); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
