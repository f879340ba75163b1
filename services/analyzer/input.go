package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadASNFile reads a newline-delimited token file; blank lines are
// skipped. Tokens are returned as written, validation happens at run time.
func LoadASNFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ASN file: %w", err)
	}

	var tokens []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			tokens = append(tokens, line)
		}
	}
	return tokens, nil
}

// ParseInlineList splits a comma-separated token list.
func ParseInlineList(s string) []string {
	var tokens []string
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// MergeIntoInputFile merges new ASNs with whatever the input file already
// holds (order-preserving dedup, existing entries first) and rewrites the
// file. It returns the merged list.
func MergeIntoInputFile(asns []string, path string) ([]string, error) {
	existing, err := LoadASNFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	seen := map[string]struct{}{}
	var merged []string
	for _, asn := range append(existing, asns...) {
		if _, ok := seen[asn]; ok {
			continue
		}
		seen[asn] = struct{}{}
		merged = append(merged, asn)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create input directory: %w", err)
	}
	var sb strings.Builder
	for _, asn := range merged {
		sb.WriteString(asn)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return nil, fmt.Errorf("update input file: %w", err)
	}
	return merged, nil
}
