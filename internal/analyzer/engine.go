package analyzer

import (
	"strconv"
	"strings"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
)

// sensitivityThresholds maps a sensitivity to the minimum severity (inclusive)
// that triggers. Unrecognized sensitivities fall back to medium.
var sensitivityThresholds = map[domain.Sensitivity]int{
	domain.SensitivityLow:    5,
	domain.SensitivityMedium: 2,
	domain.SensitivityHigh:   1,
}

// Analyze walks categories in this fixed order and maps the first breaching
// category to a fixed action.
var (
	analyzeOrder = []domain.Category{
		domain.CategoryLanguage,
		domain.CategorySexualContent,
		domain.CategoryViolence,
	}
	analyzeActions = map[domain.Category]domain.Action{
		domain.CategoryLanguage:      domain.ActionMute,
		domain.CategorySexualContent: domain.ActionSkip,
		domain.CategoryViolence:      domain.ActionFastForward,
	}
)

// AnalyzeDecision checks categories in its own priority order and derives the
// action and duration from the matched category's sensitivity rather than from
// the category. The two entry points differ on purpose: clients depend on both
// historical behaviors, so neither table may be folded into the other.
var (
	decisionOrder = []domain.Category{
		domain.CategorySexualContent,
		domain.CategoryViolence,
		domain.CategoryLanguage,
	}
	sensitivityResponses = map[domain.Sensitivity]response{
		domain.SensitivityLow:    {action: domain.ActionMute, durationSeconds: 5},
		domain.SensitivityMedium: {action: domain.ActionFastForward, durationSeconds: 10},
		domain.SensitivityHigh:   {action: domain.ActionSkip, durationSeconds: 15},
	}
)

type response struct {
	action          domain.Action
	durationSeconds int
}

// thresholdFor returns the trigger threshold for a sensitivity, medium for
// anything unrecognized.
func thresholdFor(s domain.Sensitivity) int {
	if t, ok := sensitivityThresholds[s]; ok {
		return t
	}
	return sensitivityThresholds[domain.SensitivityMedium]
}

// responseFor returns the action/duration row for a sensitivity, the medium
// row for anything unrecognized.
func responseFor(s domain.Sensitivity) response {
	if r, ok := sensitivityResponses[s]; ok {
		return r
	}
	return sensitivityResponses[domain.SensitivityMedium]
}

// Engine applies a user's preferences to matcher scores. It holds no mutable
// state: both entry points are pure functions of (text, preferences) and safe
// for concurrent use.
type Engine struct {
	matcher *Matcher
}

// NewEngine wraps a compiled matcher.
func NewEngine(matcher *Matcher) *Engine {
	return &Engine{matcher: matcher}
}

// Analyze returns the playback action for the first enabled category whose
// severity reaches its threshold, checking language, then sexual content,
// then violence. Disabled categories are skipped entirely. Empty text never
// triggers.
func (e *Engine) Analyze(text string, prefs domain.Preferences) domain.Action {
	if text == "" {
		return domain.ActionNone
	}

	for _, category := range analyzeOrder {
		if !prefs.Enabled(category) {
			continue
		}
		severity := e.matcher.Score(text, category)
		if severity >= thresholdFor(prefs.SensitivityFor(category)) {
			return analyzeActions[category]
		}
	}
	return domain.ActionNone
}

// AnalyzeDecision scores every enabled category up front, then returns the
// full decision for the highest-priority breaching category (sexual content,
// then violence, then language). The optional confidence is carried into the
// reason string, never used for matching.
func (e *Engine) AnalyzeDecision(text string, prefs domain.Preferences, confidence *float64) domain.Decision {
	if text == "" {
		return domain.NoMatchDecision()
	}

	severities := make(map[domain.Category]int, len(decisionOrder))
	for _, category := range decisionOrder {
		if prefs.Enabled(category) {
			severities[category] = e.matcher.Score(text, category)
		}
	}

	for _, category := range decisionOrder {
		severity, scored := severities[category]
		if !scored {
			continue
		}
		sensitivity := prefs.SensitivityFor(category)
		if severity < thresholdFor(sensitivity) {
			continue
		}

		resp := responseFor(sensitivity)
		matched := category
		return domain.Decision{
			Action:          resp.action,
			DurationSeconds: resp.durationSeconds,
			MatchedCategory: &matched,
			Reason:          reason(category, sensitivity, severity, confidence),
		}
	}
	return domain.NoMatchDecision()
}

// reason renders the decision explanation, e.g.
// "sexual content detected; sensitivity=high; severity=3; confidence=0.85".
// The sensitivity is echoed raw, even when unrecognized.
func reason(category domain.Category, sensitivity domain.Sensitivity, severity int, confidence *float64) string {
	var b strings.Builder
	b.WriteString(string(category))
	b.WriteString(" content detected; sensitivity=")
	b.WriteString(string(sensitivity))
	b.WriteString("; severity=")
	b.WriteString(strconv.Itoa(severity))
	if confidence != nil {
		b.WriteString("; confidence=")
		b.WriteString(strconv.FormatFloat(*confidence, 'f', -1, 64))
	}
	return b.String()
}
