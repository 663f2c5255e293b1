package drafting

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	headingRe    = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+\S`)
	emphasisRe   = regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`)
	bulletRe     = regexp.MustCompile(`(?m)^\s*(?:[-*•▪‣◦]|\d{1,2}[.)])\s+\S`)
	attachmentRe = regexp.MustCompile(`(?i)\b(?:attach(?:ed|ment|ments|ing)?|enclosed)\b`)
)

// CountWords counts whitespace separated words
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func hasEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF,
			r >= 0x2600 && r <= 0x27BF,
			r >= 0x2B00 && r <= 0x2BFF,
			r == 0xFE0F, r == 0x200D:
			return true
		case unicode.Is(unicode.So, r) && r > 0x2100 && r != 0x2122:
			// other pictographic symbols; ™ is allowed
			return true
		}
	}
	return false
}

func hasMarkdown(s string) bool {
	return headingRe.MatchString(s) || emphasisRe.MatchString(s) || strings.Contains(s, "```")
}

func hasBullets(s string) bool {
	return bulletRe.MatchString(s)
}

func mentionsAttachment(s string) bool {
	return attachmentRe.MatchString(s)
}

// stripSignature removes a model-written copy of the signature block,
// either complete or starting from its first line near the end of the body.
func stripSignature(body, signature string) string {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return strings.TrimSpace(body)
	}
	if idx := strings.LastIndex(body, sig); idx != -1 {
		return strings.TrimSpace(body[:idx] + body[idx+len(sig):])
	}

	first := strings.TrimSpace(strings.SplitN(sig, "\n", 2)[0])
	if len(first) < 6 {
		return strings.TrimSpace(body)
	}
	lines := strings.Split(body, "\n")
	// only look at the tail of the body, a signature never opens a letter
	for i := len(lines) - 1; i >= len(lines)/2 && i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == first {
			return strings.TrimSpace(strings.Join(lines[:i], "\n"))
		}
	}
	return strings.TrimSpace(body)
}
