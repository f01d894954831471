package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog is the static, versioned policy surface returned to callers.
// No request or receipt state is consulted; the catalog only describes the
// rules in force. Version is stamped onto every receipt produced while the
// catalog is active so decisions remain auditable against it.
type Catalog struct {
	Version                      string   `yaml:"policy_version" json:"policy_version"`
	DefaultMonthlyApprovalCapUSD float64  `yaml:"default_monthly_approval_cap_usd" json:"default_monthly_approval_cap_usd"`
	Decisions                    []string `yaml:"decisions" json:"decisions"`
	Guidance                     []string `yaml:"guidance" json:"guidance"`
}

// Default returns the built-in catalog used when no policy file exists.
func Default() *Catalog {
	return &Catalog{
		Version:                      "policy-v1",
		DefaultMonthlyApprovalCapUSD: 5000,
		Decisions:                    []string{"approved", "denied", "needs_info"},
		Guidance: []string{
			"attach links to the change, PR, invoice, or filing being attested",
			"include evidence references for anything touching money or access",
			"spend above the monthly cap requires explicit reviewer sign-off",
		},
	}
}

// Load reads catalog configuration from a YAML file. Empty path falls back
// to ~/.signoff/policy.yaml. A missing file returns the defaults; invalid
// YAML is an error.
func Load(path string) (*Catalog, error) {
	cat, _, err := LoadWithHash(path)
	return cat, err
}

// LoadWithHash loads the catalog and returns the SHA-256 hash of the raw
// bytes on disk. When no file exists the hash is that of empty input, so a
// defaulted catalog is still distinguishable in receipts and logs.
func LoadWithHash(path string) (*Catalog, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			h := sha256.Sum256(nil)
			return Default(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		path = filepath.Join(home, ".signoff", "policy.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return Default(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return nil, "", fmt.Errorf("failed to read policy catalog: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cat := Default()
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, "", fmt.Errorf("failed to parse policy catalog: %w", err)
	}

	h := sha256.Sum256(data)
	return cat, "sha256:" + hex.EncodeToString(h[:]), nil
}
