package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxInputLength is the longest guess, in characters, accepted from a player
const MaxInputLength = 50

// suspiciousChars are shell and markup metacharacters never present in a real word
const suspiciousChars = "<>{}[]\\;|&$`"

var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`--|/\*|\*/`),
	regexp.MustCompile(`(?i)(java|vb)script\s*:`),
	regexp.MustCompile(`(?i)data\s*:`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)\b(eval|exec|function|alert)\s*\(`),
	regexp.MustCompile(`(?i)%[0-9a-f]{2}`),
}

// injectionKeywords reject a guess whose letters spell exactly one of them.
// Longer words that merely contain a keyword ("dropped", "describe") pass.
var injectionKeywords = map[string]bool{
	"script": true, "javascript": true, "eval": true, "function": true, "exec": true,
	"select": true, "insert": true, "update": true, "delete": true, "drop": true, "union": true,
}

// injectionPhrases collapse analyzer-bound text to nothing
var injectionPhrases = regexp.MustCompile(`(?i)` +
	`ignore\s+(all\s+)?(the\s+)?(previous|prior|above)` +
	`|disregard\s+(all\s+)?(the\s+)?(previous|prior|above)` +
	`|system\s+prompt` +
	`|you\s+are\s+now` +
	`|new\s+instructions` +
	`|act\s+as\b` +
	`|\bscript\b|javascript|\beval\b`)

// SanitizeGuess screens a raw guess and returns the cleaned lower-case word.
// Format and security checks run before the letters-only check so adversarial
// input gets a specific diagnosis.
func SanitizeGuess(raw string) (string, error) {
	trimmed := strings.TrimSpace(norm.NFC.String(raw))
	if trimmed == "" {
		return "", newError(EmptyAfterSanitization, "Guess cannot be empty")
	}

	if len(strings.Fields(trimmed)) > 1 {
		return "", newError(MultiWordInput, "Please enter only one word")
	}

	if utf8.RuneCountInString(trimmed) > MaxInputLength {
		return "", newError(InputTooLong, "Input too long (maximum 50 characters)")
	}

	if IsSuspicious(trimmed) {
		return "", newError(SuspiciousContent, "Invalid characters detected in input")
	}

	word := strings.ToLower(lettersOnly(trimmed))
	if word == "" {
		return "", newError(EmptyAfterSanitization, "Guess must contain at least one letter")
	}

	return word, nil
}

// IsSuspicious reports whether text contains markup, script, SQL or shell tokens
func IsSuspicious(text string) bool {
	if strings.ContainsAny(text, suspiciousChars) {
		return true
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return true
		}
	}
	for _, p := range suspiciousPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	for _, token := range strings.Fields(text) {
		if injectionKeywords[strings.ToLower(lettersOnly(token))] {
			return true
		}
	}
	return false
}

// ForAnalysis prepares text for the remote hint analyzer. Text that looks like
// an instruction override becomes "", which callers treat as nothing to forward.
func ForAnalysis(text string) string {
	text = norm.NFC.String(text)
	if injectionPhrases.MatchString(text) {
		return ""
	}

	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return truncate(strings.Join(strings.Fields(b.String()), " "), MaxInputLength)
}

// ForDisplay keeps letters, spaces and hyphens so the text can be echoed back safely
func ForDisplay(text string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(text) {
		if unicode.IsLetter(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return truncate(strings.TrimSpace(b.String()), MaxInputLength)
}

// IsLettersOnly reports whether s is a non-empty run of letters
func IsLettersOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
