package common

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/math"
	"gopkg.in/go-playground/validator.v9"
)

var (
	mentionRegex  = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
	hashtagRegex  = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

	urlValidator = validator.New()
)

// ExtractMentions returns the distinct usernames mentioned in content in
// order of first appearance.
func ExtractMentions(content string) []string {
	return uniqueSubmatches(mentionRegex, content, false)
}

// ExtractHashtags returns the distinct lowercase hashtags of content in order
// of first appearance.
func ExtractHashtags(content string, maxLength int) []string {
	tags := uniqueSubmatches(hashtagRegex, content, true)
	result := tags[:0]
	for _, tag := range tags {
		if maxLength <= 0 || utf8.RuneCountInString(tag) <= maxLength {
			result = append(result, tag)
		}
	}

	return result
}

func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// IsHTTPURL reports whether s is an absolute http or https URL.
func IsHTTPURL(s string) bool {
	if err := urlValidator.Var(s, "required,url"); err != nil {
		return false
	}

	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Preview cuts content to at most n runes.
func Preview(content string, n int) string {
	runes := []rune(content)
	return string(runes[:math.MinInt(len(runes), n)])
}

func uniqueSubmatches(r *regexp.Regexp, content string, lower bool) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, match := range r.FindAllStringSubmatch(content, -1) {
		s := match[1]
		if lower {
			s = strings.ToLower(s)
		}

		if seen[s] {
			continue
		}

		seen[s] = true
		result = append(result, s)
	}

	return result
}
