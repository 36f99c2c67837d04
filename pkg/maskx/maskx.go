// Package maskx implements irreversible display masking. The functions here
// are deterministic and pure: masking the same value twice yields the same
// masked shape, so listings stay visually consistent across views. Nothing in
// this package can be reversed; recoverable pseudonyms live in cryptox.
package maskx

import (
	"strings"
	"unicode"
)

// Name reduces a personal name to its initials, one per word, padded with a
// fixed placeholder. Case is preserved so particles keep their shape:
// "Jane van Doe" -> "J. v. D.".
func Name(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		r := []rune(f)
		parts = append(parts, string(r[0])+".")
	}
	return strings.Join(parts, " ")
}

// Contact masks the middle digits of a phone number or similar contact
// string, preserving its length and format. The leading digit and the last
// four stay visible; every digit in between becomes 'X'; separators and
// other characters pass through untouched: "04 1234 5678" -> "0X XXXX 5678".
func Contact(contact string) string {
	runes := []rune(contact)

	// Count digits so we know where the head ends and the tail starts.
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}

	headKeep, tailKeep := 1, 4
	if digits <= headKeep+tailKeep {
		headKeep, tailKeep = 0, 0 // no maskable middle, reveal nothing
	}

	seen := 0
	out := make([]rune, len(runes))
	for i, r := range runes {
		if !unicode.IsDigit(r) {
			out[i] = r
			continue
		}
		seen++
		if seen <= headKeep || seen > digits-tailKeep {
			out[i] = r
		} else {
			out[i] = 'X'
		}
	}
	return string(out)
}

// diagnosisCategories maps lowercase keywords to the category shown in place
// of the raw diagnosis text. First match wins, scanning in a fixed order so
// the mapping is deterministic.
var diagnosisCategories = []struct {
	keyword  string
	category string
}{
	{"cardi", "Cardiovascular"},
	{"heart", "Cardiovascular"},
	{"hypertension", "Cardiovascular"},
	{"asthma", "Respiratory"},
	{"pneumonia", "Respiratory"},
	{"bronch", "Respiratory"},
	{"respirat", "Respiratory"},
	{"diabet", "Endocrine"},
	{"thyroid", "Endocrine"},
	{"fracture", "Musculoskeletal"},
	{"arthritis", "Musculoskeletal"},
	{"migraine", "Neurological"},
	{"epilep", "Neurological"},
	{"stroke", "Neurological"},
	{"cancer", "Oncology"},
	{"tumor", "Oncology"},
	{"tumour", "Oncology"},
	{"anxiety", "Mental Health"},
	{"depress", "Mental Health"},
	{"influenza", "Infectious"},
	{"infection", "Infectious"},
	{"covid", "Infectious"},
}

// DiagnosisCategory reduces a raw diagnosis to its category. Unrecognised
// diagnoses fall back to "General" rather than leaking any of the raw text.
func DiagnosisCategory(diagnosis string) string {
	lower := strings.ToLower(diagnosis)
	for _, dc := range diagnosisCategories {
		if strings.Contains(lower, dc.keyword) {
			return dc.category
		}
	}
	return "General"
}
