package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// KeyParams identifies one detection result.
type KeyParams struct {
	Path              string    `json:"path"`
	Size              int64     `json:"size"`
	ModTime           time.Time `json:"mod_time"`
	SigmaFine         float32   `json:"sigma_fine"`
	SigmaCoarse       float32   `json:"sigma_coarse"`
	Threshold         float32   `json:"threshold"`
	Capability        string    `json:"capability"`
	CapabilityVersion string    `json:"capability_version"`
}

// KeyParamsForFile stats path and fills in its identity. The path is made
// absolute so the same file reached through different relative paths shares
// an entry.
func KeyParamsForFile(path string) (KeyParams, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return KeyParams{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return KeyParams{}, err
	}
	return KeyParams{
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
	}, nil
}

// GenerateKey returns the hex SHA256 of the canonical JSON form of p.
func GenerateKey(p KeyParams) (string, error) {
	p.ModTime = p.ModTime.UTC()
	canonical, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
