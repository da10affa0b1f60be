// Package profanity provides the pluggable strong-language lexicon.
//
// The analyzer scores the language category by counting whitespace-delimited
// tokens the lexicon flags. Lexicon is an interface so deployments can swap in
// a different word source without touching the matcher.
package profanity
