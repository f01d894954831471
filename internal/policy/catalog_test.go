package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	if cat.Version == "" {
		t.Error("expected default version to be set")
	}
	if cat.DefaultMonthlyApprovalCapUSD <= 0 {
		t.Error("expected a positive default cap")
	}
	if len(cat.Decisions) != 3 {
		t.Errorf("expected 3 decisions, got %v", cat.Decisions)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if cat.Version != Default().Version {
		t.Errorf("expected default version, got %s", cat.Version)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := "policy_version: policy-v7\ndefault_monthly_approval_cap_usd: 250\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Version != "policy-v7" {
		t.Errorf("expected overridden version, got %s", cat.Version)
	}
	if cat.DefaultMonthlyApprovalCapUSD != 250 {
		t.Errorf("expected overridden cap, got %v", cat.DefaultMonthlyApprovalCapUSD)
	}
	// Unspecified fields keep defaults
	if len(cat.Decisions) != 3 {
		t.Errorf("expected default decisions to survive, got %v", cat.Decisions)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	os.WriteFile(path, []byte(":\t not yaml ["), 0600)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadWithHashDistinguishesContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.yaml")
	pathB := filepath.Join(dir, "b.yaml")
	os.WriteFile(pathA, []byte("policy_version: a\n"), 0600)
	os.WriteFile(pathB, []byte("policy_version: b\n"), 0600)

	_, hashA, err := LoadWithHash(pathA)
	if err != nil {
		t.Fatalf("LoadWithHash failed: %v", err)
	}
	_, hashB, _ := LoadWithHash(pathB)
	if hashA == hashB {
		t.Error("expected different content to hash differently")
	}

	_, hashMissing, err := LoadWithHash(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWithHash for missing file failed: %v", err)
	}
	if hashMissing == "" {
		t.Error("expected a hash even when defaults are used")
	}
}
