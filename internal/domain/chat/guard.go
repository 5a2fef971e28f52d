package chat

import (
	"regexp"
	"strings"
)

// DeclineMessage is the single fixed reply for out-of-scope or adversarial
// questions. It must be returned verbatim regardless of phrasing, so both the
// pre-filter and the sentinel path below funnel into this exact string.
const DeclineMessage = "I can only help with questions about your event recommendations. Is there anything you'd like to know about the events listed above?"

// outOfScopeSentinel is what the model is instructed to emit for questions it
// judges out of scope; the service swaps it for DeclineMessage.
const outOfScopeSentinel = "OUT_OF_SCOPE"

// overridePatterns catch instruction-override and context-extraction attempts
// before the model ever sees them. Matching is case-insensitive on the
// question text.
var overridePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|your\s+|previous\s+|prior\s+)*instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|your\s+|previous\s+|prior\s+)*(instructions|rules|guidelines)`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?(instructions|context|prompt)`),
	regexp.MustCompile(`(?i)(print|show|repeat|output)\s+(your\s+)?(instructions|prompt|context)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+`),
	regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`),
	regexp.MustCompile(`(?i)act\s+as\s+(if|though|a)\b`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
}

// isAdversarial reports whether a question attempts to override or extract
// the engine's instructions.
func isAdversarial(question string) bool {
	q := strings.TrimSpace(question)
	for _, re := range overridePatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}

// isDecline reports whether a model reply signals out-of-scope, either via
// the sentinel or by echoing the decline text itself.
func isDecline(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	if strings.Contains(trimmed, outOfScopeSentinel) {
		return true
	}
	return strings.EqualFold(trimmed, DeclineMessage)
}
