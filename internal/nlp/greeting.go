package nlp

import (
	"regexp"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

// GreetingResponse is the canned reply for the greeting family.
const GreetingResponse = "¡Hola! ¿En qué puedo ayudarte hoy?"

// GreetingScore is the neutral non-zero confidence attached to a
// greeting reply so it never falls into the disambiguation path.
const GreetingScore = 0.3

// GreetingThreshold is the score below which a classification may still
// be overridden by the greeting match. Independent from the
// disambiguation threshold on purpose.
const GreetingThreshold = 0.3

// greetingRe recognizes common Spanish greetings and their slang forms
// (hola, buenos días, qué tal, klk, saludos, hey...), optionally
// addressed to the bot.
var greetingRe = regexp.MustCompile(`^(?:` +
	`[hw][o0]+l+[aá]+s?` +
	`|h[eé]?l+o+` +
	`|b[uú]e[nm](?:o?s|as)?(?:\s*(?:d[ií]as?|tardes?|noches?))?` +
	`|q(?:u[eé])?\s*tal` +
	`|klk|qloq|qlok|[qk](?:u[eé])?\s*lo\s*[qk](?:u[eé])?` +
	`|q(?:u[eé])?\s*hubo` +
	`|q(?:u[eé])?\s*hay` +
	`|q(?:u[eé])?\s*(?:onda|v[oó]l[aá])` +
	`|saludos?` +
	`|ey|hey` +
	`|ay[uú]dame` +
	`)(?:\s+bot)?$`)

// IsGreeting reports whether the utterance belongs to the greeting
// family. Matching is case-insensitive via normalization.
func IsGreeting(utterance string) bool {
	return greetingRe.MatchString(Normalize(utterance))
}

// GreetingOverride applies the greeting short-circuit: when the raw
// classification has no answer or a score below GreetingThreshold and
// the utterance is a greeting, the canned greeting replaces the result,
// bypassing the ambiguous-intent path. Reports whether it fired.
func GreetingOverride(utterance string, raw domain.ClassificationResult) (domain.ClassificationResult, bool) {
	if raw.Answer != "" && raw.Score >= GreetingThreshold {
		return raw, false
	}
	if !IsGreeting(utterance) {
		return raw, false
	}
	score := raw.Score
	if score < GreetingScore {
		score = GreetingScore
	}
	return domain.ClassificationResult{
		IntentID: raw.IntentID,
		Answer:   GreetingResponse,
		Score:    score,
	}, true
}
