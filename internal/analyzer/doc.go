// Package analyzer implements the content matcher and the decision engine.
//
// The Matcher scores a text snippet per category: compiled keyword patterns for
// violence and sexual content, lexicon token counting for strong language. The
// Engine applies a user's preferences on top of those scores through two entry
// points, Analyze and AnalyzeDecision, which deliberately keep their historical
// differences in category order and action mapping. No mutable state.
package analyzer
