package identity

import (
	"reflect"
	"testing"

	"coiflow/roster"
)

func testRoster() []roster.Person {
	return []roster.Person{
		{ID: "e1", FirstName: "John", LastName: "Smith", Email: "john.smith@roofco.com"},
		{ID: "e2", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@roofco.com"},
		{ID: "e3", FirstName: "Carlos", LastName: "Mendez", Email: "carlos.mendez@roofco.com"},
		{ID: "e4", FirstName: "Maria", LastName: "Gonzalez", Email: "maria.gonzalez@roofco.com"},
	}
}

func TestResolve_ExactIgnoresMiddleName(t *testing.T) {
	match := Resolve("John Q. Smith", testRoster())

	if match.Type != MatchExact {
		t.Fatalf("expected EXACT, got %s", match.Type)
	}
	if match.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", match.Confidence)
	}
	if match.MatchedPerson == nil || match.MatchedPerson.ID != "e1" {
		t.Fatalf("expected matched person e1, got %+v", match.MatchedPerson)
	}
	if match.EmployeeID != "e1" {
		t.Fatalf("expected employee id e1, got %q", match.EmployeeID)
	}
}

func TestResolve_ExactIsCaseInsensitive(t *testing.T) {
	match := Resolve("  CARLOS mendez ", testRoster())

	if match.Type != MatchExact || match.Confidence != 100 {
		t.Fatalf("expected EXACT/100, got %s/%d", match.Type, match.Confidence)
	}
	if match.EmployeeID != "e3" {
		t.Fatalf("expected e3, got %q", match.EmployeeID)
	}
}

func TestResolve_EmailMatch(t *testing.T) {
	match := Resolve("jane.smith@roofco.com", testRoster())

	if match.Type != MatchEmail {
		t.Fatalf("expected EMAIL, got %s", match.Type)
	}
	if match.Confidence != 95 {
		t.Fatalf("expected confidence 95, got %d", match.Confidence)
	}
	if match.MatchedPerson == nil || match.MatchedPerson.ID != "e2" {
		t.Fatalf("expected matched person e2, got %+v", match.MatchedPerson)
	}
}

func TestResolve_UnknownCompanyNameIsNone(t *testing.T) {
	match := Resolve("Acme Roofing LLC", testRoster())

	if match.Type != MatchNone {
		t.Fatalf("expected NONE, got %s", match.Type)
	}
	if match.MatchedPerson != nil {
		t.Fatalf("expected nil matched person, got %+v", match.MatchedPerson)
	}
	if len(match.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(match.Suggestions))
	}
}

func TestResolve_FuzzyBelowGateKeepsSuggestions(t *testing.T) {
	match := Resolve("Jhn Smt", testRoster())

	if match.MatchedPerson != nil {
		t.Fatalf("expected no confident match for a misspelled name this far off, got %+v", match.MatchedPerson)
	}
	if len(match.Suggestions) == 0 {
		t.Fatal("expected suggestions for a near-miss name")
	}
	if match.Suggestions[0].Person.ID != "e1" {
		t.Fatalf("expected John Smith as top suggestion, got %s", match.Suggestions[0].Person.ID)
	}
}

func TestResolve_FuzzyTypoAboveGate(t *testing.T) {
	match := Resolve("Carlos Mendes", testRoster())

	if match.Type != MatchFuzzy {
		t.Fatalf("expected FUZZY, got %s", match.Type)
	}
	if match.Confidence < ConfidentMatchThreshold {
		t.Fatalf("expected score above the gate, got %d", match.Confidence)
	}
	if match.MatchedPerson == nil || match.MatchedPerson.ID != "e3" {
		t.Fatalf("expected matched person e3, got %+v", match.MatchedPerson)
	}
}

func TestResolve_ReorderedNameStillConfident(t *testing.T) {
	match := Resolve("Mendez, Carlos", testRoster())

	if match.MatchedPerson == nil || match.MatchedPerson.ID != "e3" {
		t.Fatalf("expected matched person e3, got %+v", match.MatchedPerson)
	}
	if match.Confidence != 100 {
		t.Fatalf("expected 100 via token-order normalization, got %d", match.Confidence)
	}
}

func TestResolve_PartialInitialAndLastName(t *testing.T) {
	match := Resolve("C. Mendez", testRoster())

	if match.Type != MatchPartial {
		t.Fatalf("expected PARTIAL, got %s", match.Type)
	}
	if match.MatchedPerson != nil {
		t.Fatalf("partial matches must not clear the gate, got %+v", match.MatchedPerson)
	}
	if len(match.Suggestions) == 0 || match.Suggestions[0].Person.ID != "e3" {
		t.Fatalf("expected Mendez as top suggestion, got %+v", match.Suggestions)
	}
}

func TestResolve_PartialLastNameAmbiguousStaysFuzzy(t *testing.T) {
	// Two Smiths: last-name-only must not resolve to either.
	match := Resolve("Smith", testRoster())

	if match.Type == MatchPartial {
		t.Fatal("ambiguous last name must not produce a PARTIAL match")
	}
	if match.MatchedPerson != nil {
		t.Fatalf("expected no confident match, got %+v", match.MatchedPerson)
	}
}

func TestResolve_PartialLastNameUnique(t *testing.T) {
	match := Resolve("Gonzalez", testRoster())

	if match.Type != MatchPartial {
		t.Fatalf("expected PARTIAL, got %s", match.Type)
	}
	if match.MatchedPerson != nil {
		t.Fatalf("expected no auto-assignment below the gate, got %+v", match.MatchedPerson)
	}
}

func TestResolve_EmptyAndGarbledInput(t *testing.T) {
	for _, input := range []string{"", "   ", "???", "12,.!"} {
		match := Resolve(input, testRoster())
		if match.Type != MatchNone {
			t.Fatalf("input %q: expected NONE, got %s", input, match.Type)
		}
		if match.MatchedPerson != nil || len(match.Suggestions) != 0 {
			t.Fatalf("input %q: expected empty result, got %+v", input, match)
		}
	}
}

func TestResolve_EmptyRoster(t *testing.T) {
	match := Resolve("John Smith", nil)
	if match.Type != MatchNone || len(match.Suggestions) != 0 {
		t.Fatalf("expected NONE with empty roster, got %+v", match)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	people := testRoster()
	first := Resolve("J Smith", people)
	for i := 0; i < 10; i++ {
		again := Resolve("J Smith", people)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resolve is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestResolve_SuggestionsCappedAndSorted(t *testing.T) {
	people := []roster.Person{
		{ID: "p1", FirstName: "Ann", LastName: "Smith"},
		{ID: "p2", FirstName: "Abe", LastName: "Smith"},
		{ID: "p3", FirstName: "Al", LastName: "Smith"},
		{ID: "p4", FirstName: "Amy", LastName: "Smith"},
		{ID: "p5", FirstName: "Art", LastName: "Smith"},
		{ID: "p6", FirstName: "Ana", LastName: "Smith"},
		{ID: "p7", FirstName: "Ava", LastName: "Smith"},
	}

	match := Resolve("Ann Smith", people)

	if len(match.Suggestions) > MaxSuggestions {
		t.Fatalf("expected at most %d suggestions, got %d", MaxSuggestions, len(match.Suggestions))
	}
	for i := 1; i < len(match.Suggestions); i++ {
		if match.Suggestions[i-1].Score < match.Suggestions[i].Score {
			t.Fatalf("suggestions not sorted descending: %+v", match.Suggestions)
		}
	}
	if match.Suggestions[0].Person.ID != "p1" {
		t.Fatalf("expected the exact match on top, got %s", match.Suggestions[0].Person.ID)
	}
}

func TestResolve_TieBreakPrefersInputTokenOrder(t *testing.T) {
	people := []roster.Person{
		{ID: "p1", FirstName: "Scott", LastName: "James"},
		{ID: "p2", FirstName: "James", LastName: "Scott"},
	}

	match := Resolve("James Scott", people)

	if match.MatchedPerson == nil || match.MatchedPerson.ID != "p2" {
		t.Fatalf("expected the token-order match p2 to win the tie, got %+v", match.MatchedPerson)
	}
}

func TestResolve_TieBreakStableOnRosterOrder(t *testing.T) {
	people := []roster.Person{
		{ID: "p1", FirstName: "John", LastName: "Smith", Email: "a@x.com"},
		{ID: "p2", FirstName: "John", LastName: "Smith", Email: "b@x.com"},
	}

	match := Resolve("John Smith", people)

	if match.MatchedPerson == nil || match.MatchedPerson.ID != "p1" {
		t.Fatalf("expected roster order to break the tie, got %+v", match.MatchedPerson)
	}
}
