package identity

import "coiflow/roster"

// MatchType classifies how a candidate name was resolved against the roster.
type MatchType string

const (
	MatchExact   MatchType = "EXACT"
	MatchFuzzy   MatchType = "FUZZY"
	MatchEmail   MatchType = "EMAIL"
	MatchPartial MatchType = "PARTIAL"
	MatchNone    MatchType = "NONE"
)

// ConfidentMatchThreshold is the score at or above which a match
// auto-populates an assignment without manual confirmation.
const ConfidentMatchThreshold = 80

// MaxSuggestions caps the ranked candidate list returned with every match.
const MaxSuggestions = 5

// Suggestion pairs a roster person with their similarity score.
type Suggestion struct {
	Person roster.Person
	Score  int
}

// Match is the result of resolving an extracted name against the roster.
// MatchedPerson is non-nil only when Confidence meets ConfidentMatchThreshold;
// Suggestions always carries the ranked candidates regardless of the gate.
type Match struct {
	EmployeeID    string
	Confidence    int
	Type          MatchType
	MatchedPerson *roster.Person
	Suggestions   []Suggestion
}

// Confident reports whether the match cleared the auto-assignment gate.
func (m Match) Confident() bool {
	return m.MatchedPerson != nil
}
