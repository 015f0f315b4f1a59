package intent

import (
	"regexp"
	"strings"
	"unicode"
)

// Pattern rules evaluated against normalized message text. Each rule
// group is tested independently, so a single message can fire several
// intents; the resulting slice preserves rule order.
var (
	playerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^tell me more about (.+)$`),
		regexp.MustCompile(`^tell me about (.+)$`),
		regexp.MustCompile(`^who is (.+)$`),
	}
	explainerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^what is a (.+)$`),
		regexp.MustCompile(`^what does (.+) mean$`),
	}

	punctuation = regexp.MustCompile(`[!"#$%&()*+,./:;<=>?@\[\]^_{|}~]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

const jokePhrase = "tell me a joke"

// Match evaluates one message against the rule set and returns the fired
// intents in rule order. A quick-reply payload code takes precedence and
// bypasses text matching entirely. When no rule fires, a message with an
// attachment yields an echo acknowledgment; plain unmatched text yields
// nothing (silent no-op).
func Match(text, quickReplyPayload string, hasAttachment bool) []Intent {
	if quickReplyPayload != "" {
		if topic, ok := TopicByPayload(quickReplyPayload); ok {
			return []Intent{{Kind: KindQuickReplyTopic, Topic: topic}}
		}
		// Unrecognized payload codes fall through to text matching.
	}

	normalized := Normalize(text)

	var intents []Intent
	if term := firstCapture(playerPatterns, normalized); term != "" {
		intents = append(intents, Intent{Kind: KindPlayerLookup, Term: term})
	}
	if term := firstCapture(explainerPatterns, normalized); term != "" {
		intents = append(intents, Intent{Kind: KindExplainer, Term: capitalizeFirst(term)})
	}
	if normalized == jokePhrase {
		intents = append(intents, Intent{Kind: KindJoke})
	}
	if strings.Contains(normalized, "latest") {
		intents = append(intents, Intent{Kind: KindLatestTopicMenu})
	}
	if strings.Contains(normalized, "next match") {
		intents = append(intents, Intent{Kind: KindNextMatchInfo})
	}

	if len(intents) == 0 && hasAttachment {
		return []Intent{{Kind: KindEcho}}
	}
	return intents
}

// Normalize lowercases the text, strips punctuation, and collapses
// whitespace so pattern matching is insensitive to casing and trailing
// question marks.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctuation.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// firstCapture returns the first capture group of the first pattern that
// matches, so each rule group contributes at most one intent.
func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// capitalizeFirst uppercases the first rune only; term-table keys are
// stored with a leading capital.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
