package identity

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"coiflow/roster"
)

// suggestionFloor is the minimum similarity score a roster entry needs to
// appear in the suggestion list. Scores below it are noise, not candidates.
const suggestionFloor = 40

const (
	partialInitialScore  = 70
	partialLastNameScore = 60
)

type scoredPerson struct {
	person  roster.Person
	index   int
	score   int
	ordered bool
	typ     MatchType
}

// Resolve matches an extracted name string against the roster and returns a
// scored, ranked match. It is pure and deterministic: identical inputs always
// produce identical results, and garbled input yields a NONE match rather
// than an error.
func Resolve(candidateName string, people []roster.Person) Match {
	candToks := tokens(candidateName)
	isEmail := looksLikeEmail(candidateName)
	if (len(candToks) == 0 && !isEmail) || len(people) == 0 {
		return Match{Type: MatchNone, Suggestions: []Suggestion{}}
	}

	normCand := strings.Join(candToks, " ")
	sortedCand := sortedKey(candToks)
	emailCand := strings.ToLower(strings.TrimSpace(candidateName))

	entries := make([]scoredPerson, 0, len(people))
	for i, p := range people {
		entry := scoredPerson{person: p, index: i, typ: MatchFuzzy}

		nameToks := tokens(p.FullName())
		normName := strings.Join(nameToks, " ")

		ordered := similarity(normCand, normName)
		reordered := similarity(sortedCand, sortedKey(nameToks))
		entry.score = ordered
		entry.ordered = ordered >= reordered
		if reordered > entry.score {
			entry.score = reordered
		}

		switch {
		case exactName(candToks, normCand, normName, p):
			entry.score = 100
			entry.ordered = true
			entry.typ = MatchExact
		case isEmail && p.Email != "" && strings.EqualFold(emailCand, p.Email):
			if entry.score < 95 {
				entry.score = 95
			}
			entry.ordered = true
			entry.typ = MatchEmail
		}

		entries = append(entries, entry)
	}

	applyPartial(candToks, entries)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		if entries[i].ordered != entries[j].ordered {
			return entries[i].ordered
		}
		return entries[i].index < entries[j].index
	})

	suggestions := make([]Suggestion, 0, MaxSuggestions)
	for _, e := range entries {
		if e.score < suggestionFloor {
			break
		}
		suggestions = append(suggestions, Suggestion{Person: e.person, Score: e.score})
		if len(suggestions) == MaxSuggestions {
			break
		}
	}

	if len(suggestions) == 0 {
		return Match{Type: MatchNone, Suggestions: suggestions}
	}

	top := entries[0]
	match := Match{
		Confidence:  top.score,
		Type:        top.typ,
		Suggestions: suggestions,
	}
	if top.score >= ConfidentMatchThreshold {
		person := top.person
		match.EmployeeID = person.ID
		match.MatchedPerson = &person
	}
	return match
}

// exactName reports case-insensitive "first last" equality. Middle tokens in
// the candidate are ignored so "John Q. Smith" still matches John Smith.
func exactName(candToks []string, normCand, normName string, p roster.Person) bool {
	if normCand != "" && normCand == normName {
		return true
	}
	if len(candToks) < 2 {
		return false
	}
	first := normalize(p.FirstName)
	last := normalize(p.LastName)
	if first == "" || last == "" {
		return false
	}
	return candToks[0] == first && candToks[len(candToks)-1] == last
}

// applyPartial upgrades entries that match last-name-only or initial+last-name
// patterns, provided the pattern resolves to exactly one roster entry. The
// reduced scores stay below the confident-match gate so the caller still
// confirms manually.
func applyPartial(candToks []string, entries []scoredPerson) {
	var pattern func(p roster.Person) bool
	var score int

	switch {
	case len(candToks) == 1:
		last := candToks[0]
		pattern = func(p roster.Person) bool { return normalize(p.LastName) == last }
		score = partialLastNameScore
	case len(candToks) == 2 && len(candToks[0]) == 1:
		initial, last := candToks[0], candToks[1]
		pattern = func(p roster.Person) bool {
			first := normalize(p.FirstName)
			return first != "" && first[:1] == initial && normalize(p.LastName) == last
		}
		score = partialInitialScore
	default:
		return
	}

	hit := -1
	for i := range entries {
		if !pattern(entries[i].person) {
			continue
		}
		if hit >= 0 {
			return // ambiguous, leave fuzzy scores alone
		}
		hit = i
	}
	if hit < 0 {
		return
	}
	if entries[hit].score < score {
		entries[hit].score = score
	}
	if entries[hit].typ == MatchFuzzy {
		entries[hit].typ = MatchPartial
	}
}

// similarity scores two normalized strings 0-100 using edit distance scaled
// by the longer string's length.
func similarity(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	score := int(math.Round(100 * (1 - float64(dist)/float64(longest))))
	if score < 0 {
		return 0
	}
	return score
}
