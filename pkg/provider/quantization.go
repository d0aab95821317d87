package provider

import "regexp"

// quantizationPattern matches common GGUF-style quantization tags
// (Q4_0, Q5_K_M, Q4_K_S, ...) wherever they appear in a model name or
// filename, case-insensitively.
var quantizationPattern = regexp.MustCompile(`(?i)Q[0-9]_[0-9K](?:_[MSL])?`)

// ParseQuantization extracts a quantization tag for display purposes only.
// It returns "" when none is found. The match is upper-cased to match the
// canonical GGUF naming (q5_k_m -> Q5_K_M).
func ParseQuantization(modelName string) string {
	m := quantizationPattern.FindString(modelName)
	if m == "" {
		return ""
	}
	return upperASCII(m)
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
