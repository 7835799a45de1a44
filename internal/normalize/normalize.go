// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"regexp"
	"strings"
)

// Email canonicalizes an email address for storage and index lookups.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
}

// Phone canonicalizes a phone number for storage and index lookups.
// Formatting characters (spaces, dashes, dots, parentheses) are
// stripped, and the +972 country prefix is folded to the national
// leading zero so "+972 52-123-4567" and "0521234567" collide.
func Phone(raw string) string {
	s := strings.TrimSpace(sanitizeString(raw))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// formatting, drop
		default:
			// Keep unexpected characters so validation can reject them
			// rather than silently mangling the value.
			b.WriteRune(r)
		}
	}
	s = b.String()

	if rest, ok := strings.CutPrefix(s, "+972"); ok {
		s = "0" + rest
	}
	return s
}

// Name collapses internal whitespace runs and trims the result.
func Name(raw string) string {
	return strings.Join(strings.Fields(sanitizeString(raw)), " ")
}

// HeaderKey canonicalizes a column header for case- and
// whitespace-insensitive lookups: trimmed, lowercased, with internal
// whitespace runs replaced by a single underscore.
func HeaderKey(raw string) string {
	fields := strings.Fields(strings.ToLower(sanitizeString(raw)))
	return strings.Join(fields, "_")
}

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches anything that is not a letter, digit, or dash. Unicode
	// classes keep Hebrew tags like "משפחה" intact.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// Tag converts user input to a canonical tag slug. The slug is the
// source of truth for tag identity, so "Bride's Side", "brides side"
// and "BRIDES-SIDE" all collide.
//
// Normalization rules:
//  1. Trim whitespace and lowercase
//  2. Replace spaces, underscores, and slashes with dashes
//  3. Remove everything that is not a letter, digit, or dash
//  4. Collapse multiple dashes
//  5. Trim leading/trailing dashes
func Tag(input string) string {
	s := strings.ToLower(strings.TrimSpace(sanitizeString(input)))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Tags normalizes a tag list, dropping entries that normalize to
// nothing and de-duplicating while preserving first-seen order.
func Tags(input []string) []string {
	if len(input) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(input))
	out := make([]string, 0, len(input))
	for _, raw := range input {
		t := Tag(raw)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing. Spreadsheet exports sometimes
// include null terminators in cell values.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
