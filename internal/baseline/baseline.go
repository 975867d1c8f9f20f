// Package baseline records known findings so that a lint run can report
// only what is new.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/csslint/internal/types"
)

// DefaultFile is the baseline file name used when none is configured.
const DefaultFile = ".csslintbaseline.json"

// Baseline represents a snapshot of known findings that should be ignored
type Baseline struct {
	Version      string          `json:"version"`
	CreatedAt    string          `json:"created_at"`
	Fingerprints []string        `json:"fingerprints"`
	index        map[string]bool // For fast lookup
}

var (
	doubleQuotedRe = regexp.MustCompile(`"[^"]+"`)
	singleQuotedRe = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	numberRe       = regexp.MustCompile(`\b\d+\b`)
)

// CreateBaseline creates a new baseline from a list of findings
func CreateBaseline(findings []types.Finding) *Baseline {
	fingerprints := make([]string, 0, len(findings))
	index := make(map[string]bool)

	for _, f := range findings {
		fp := fingerprint(f)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a finding is in the baseline
func (b *Baseline) IsKnown(f types.Finding) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(f)]
}

// Filter splits findings into new ones and the number the baseline ignores.
func (b *Baseline) Filter(findings []types.Finding) ([]types.Finding, int) {
	kept := make([]types.Finding, 0, len(findings))
	ignored := 0
	for _, f := range findings {
		if b.IsKnown(f) {
			ignored++
			continue
		}
		kept = append(kept, f)
	}
	return kept, ignored
}

// fingerprint creates a stable hash of a finding.
// Uses: file path + rule ID + normalized message. Positions are left out
// because they shift as the file is edited.
func fingerprint(f types.Finding) string {
	data := fmt.Sprintf("%s|%s|%s", f.File, f.RuleID, normalizeMessage(f.Message))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// normalizeMessage replaces specific values in a message with placeholders
// so that similar findings match.
func normalizeMessage(msg string) string {
	msg = doubleQuotedRe.ReplaceAllString(msg, `"*"`)
	// Only quotes bounded by whitespace, to leave contractions alone.
	msg = singleQuotedRe.ReplaceAllString(msg, `$1'*'$3`)
	msg = numberRe.ReplaceAllString(msg, `N`)
	return strings.Join(strings.Fields(msg), " ")
}
