package service

import (
	"strings"
	"unicode/utf8"

	"translatebot/internal/domain"
)

// englishASCIIPercent is the share of ASCII code points at or above which
// a message is treated as English
const englishASCIIPercent = 80

// Verdict is the outcome of the eligibility chain
type Verdict int

const (
	VerdictEligible Verdict = iota
	VerdictOwnMessage
	VerdictEmpty
	VerdictDisabled
	VerdictEnglish
)

func (v Verdict) String() string {
	switch v {
	case VerdictEligible:
		return "eligible"
	case VerdictOwnMessage:
		return "own_message"
	case VerdictEmpty:
		return "empty"
	case VerdictDisabled:
		return "disabled"
	case VerdictEnglish:
		return "english"
	default:
		return "unknown"
	}
}

// EligibilityFilter decides whether an inbound message gets translated
type EligibilityFilter struct {
	botUserID string
	settings  *SettingsService
}

// NewEligibilityFilter creates a filter bound to the bot's own user ID
func NewEligibilityFilter(botUserID string, settings *SettingsService) *EligibilityFilter {
	return &EligibilityFilter{
		botUserID: botUserID,
		settings:  settings,
	}
}

// Evaluate runs the checks in order and stops at the first rejection
func (f *EligibilityFilter) Evaluate(msg domain.Message) Verdict {
	if msg.AuthorID == f.botUserID {
		return VerdictOwnMessage
	}

	if strings.TrimSpace(msg.Text) == "" {
		return VerdictEmpty
	}

	if !f.settings.IsEnabled(msg.AuthorID) {
		return VerdictDisabled
	}

	if IsLikelyEnglish(msg.Text) {
		return VerdictEnglish
	}

	return VerdictEligible
}

// Eligible reports whether the message should be translated
func (f *EligibilityFilter) Eligible(msg domain.Message) bool {
	return f.Evaluate(msg) == VerdictEligible
}

// IsLikelyEnglish treats text as English when at least 80% of its code
// points are ASCII. Transliterated foreign text passes as English and
// emoji-heavy English does not.
func IsLikelyEnglish(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return false
	}

	ascii := 0
	for _, r := range text {
		if r <= 0x7F {
			ascii++
		}
	}

	return ascii*100 >= total*englishASCIIPercent
}
