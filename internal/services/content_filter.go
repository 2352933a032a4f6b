package services

import (
	"regexp"
	"strings"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// Rejection reasons returned by ContentFilter.Check.
const (
	ReasonProfanity = "inappropriate_language"
	ReasonURL       = "url_not_allowed"
	ReasonSpam      = "spam_detected"
)

// ContentFilter screens player-chosen usernames. It is safe for concurrent
// use once constructed.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWordRegexps: make([]*regexp.Regexp, 0, len(BannedWords)),
	}
	for _, word := range BannedWords {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}
	f.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,})`)
	return f
}

// Check returns false and a reason code when text is rejected.
func (f *ContentFilter) Check(text string) (bool, string) {
	if text == "" {
		return true, ""
	}
	// Underscores and digits separate words in usernames like "bad_word99".
	spaced := strings.Map(func(r rune) rune {
		if r == '_' || (r >= '0' && r <= '9') {
			return ' '
		}
		return r
	}, text)

	for _, re := range f.bannedWordRegexps {
		if re.MatchString(spaced) {
			return false, ReasonProfanity
		}
	}
	if f.urlPattern.MatchString(text) {
		return false, ReasonURL
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, ReasonSpam
	}
	return true, ""
}
