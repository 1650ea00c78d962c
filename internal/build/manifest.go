package build

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
)

// crcTable is shared for manifest checksums.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Manifest records the outcome of a full build: every document, its output
// location, and a checksum of the written content. It holds nothing
// time-dependent, so two builds of identical sources produce byte-identical
// manifests and the atomic writer skips the rewrite.
type Manifest struct {
	Documents []ManifestEntry `json:"documents"`
}

// ManifestEntry describes one compiled document.
type ManifestEntry struct {
	Source   string `json:"source"`
	Output   string `json:"output"`
	Checksum string `json:"checksum"`
}

// ContentChecksum returns the CRC32 (Castagnoli) checksum of content as a
// hex string.
func ContentChecksum(content []byte) string {
	return fmt.Sprintf("%08x", crc32.Checksum(content, crcTable))
}

// WriteManifest persists the manifest under the output root using the atomic
// writer, so an unchanged build leaves the file untouched. Entries are
// ordered by source path to keep the output deterministic.
func WriteManifest(outputRoot string, m Manifest) error {
	sort.Slice(m.Documents, func(i, j int) bool {
		return m.Documents[i].Source < m.Documents[j].Source
	})

	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	content = append(content, '\n')

	_, err = WriteFileAtomic(filepath.Join(outputRoot, "manifest.json"), content)
	return err
}

// ReadManifest loads a previously written manifest. A missing manifest is
// not an error; it returns a zero Manifest.
func ReadManifest(outputRoot string) (Manifest, error) {
	var m Manifest
	content, err := os.ReadFile(filepath.Join(outputRoot, "manifest.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}
	if err := json.Unmarshal(content, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
