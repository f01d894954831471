package logstore

import (
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify reads a stream file and validates the hash chain. Returns
// Valid=true if the chain is intact, or details about the first broken
// link. Unlike ReadAll, verification does not skip malformed lines: a line
// that cannot be parsed breaks the chain by definition.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return VerifyResult{Valid: true}
		}
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	lineNum := 0
	var prevLineBytes []byte
	var broken *VerifyResult

	scanErr := scanLines(f, func(line []byte) bool {
		lineNum++

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			broken = &VerifyResult{
				Error:     fmt.Sprintf("parse error: %v", err),
				ErrorLine: lineNum,
			}
			return false
		}

		if lineNum == 1 {
			if rec.PrevHash != GenesisHash {
				broken = &VerifyResult{
					Error:     fmt.Sprintf("first record prev_hash is %q, expected genesis hash", rec.PrevHash),
					ErrorLine: 1,
				}
				return false
			}
		} else {
			expected := HashLine(prevLineBytes)
			if rec.PrevHash != expected {
				broken = &VerifyResult{
					Error:     fmt.Sprintf("hash mismatch: expected %s, got %s", expected, rec.PrevHash),
					ErrorLine: lineNum,
				}
				return false
			}
		}

		prevLineBytes = line
		return true
	})
	if scanErr != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", scanErr)}
	}
	if broken != nil {
		return *broken
	}

	return VerifyResult{Valid: true, Lines: lineNum}
}
