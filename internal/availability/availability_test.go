package availability

import (
	"testing"

	"github.com/whenworksapp/whenworks-server/internal/domain"
)

func rng(start, end string) domain.DateRange {
	return domain.DateRange{Start: start, End: end}
}

func TestCompute_NobodyBlocked(t *testing.T) {
	people := []domain.Person{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}

	res := Compute(rng("2025-01-01", "2025-01-03"), people)

	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if res.CountsPerDate[d] != 3 {
			t.Errorf("count[%s] = %d, want 3", d, res.CountsPerDate[d])
		}
		if _, ok := res.CommonDates[d]; !ok {
			t.Errorf("%s missing from common dates", d)
		}
	}
}

func TestCompute_BlocksReduceCounts(t *testing.T) {
	people := []domain.Person{
		{ID: 1, Blocks: "2025-01-02"},
		{ID: 2, Blocks: ""},
	}

	res := Compute(rng("2025-01-01", "2025-01-03"), people)

	want := map[string]int{"2025-01-01": 2, "2025-01-02": 1, "2025-01-03": 2}
	for d, c := range want {
		if res.CountsPerDate[d] != c {
			t.Errorf("count[%s] = %d, want %d", d, res.CountsPerDate[d], c)
		}
	}

	if len(res.CommonDates) != 2 {
		t.Fatalf("common dates = %v, want 2 entries", res.CommonDates)
	}
	if _, ok := res.CommonDates["2025-01-02"]; ok {
		t.Error("2025-01-02 should not be common")
	}
}

func TestCompute_WantsRestrictAvailability(t *testing.T) {
	people := []domain.Person{
		{ID: 1, Wants: "2025-01-02"},
	}

	res := Compute(rng("2025-01-01", "2025-01-10"), people)

	free := res.PerPerson[1]
	if len(free) != 1 {
		t.Fatalf("available = %v, want exactly the wanted date", free)
	}
	if _, ok := free["2025-01-02"]; !ok {
		t.Error("wanted date missing from available set")
	}
}

func TestCompute_BlockBeatsWant(t *testing.T) {
	people := []domain.Person{
		{ID: 1, Wants: "2025-01-02 2025-01-03", Blocks: "2025-01-03"},
	}

	res := Compute(rng("2025-01-01", "2025-01-05"), people)

	free := res.PerPerson[1]
	if _, ok := free["2025-01-03"]; ok {
		t.Error("blocked date present despite want")
	}
	if _, ok := free["2025-01-02"]; !ok {
		t.Error("unblocked wanted date missing")
	}
}

func TestCompute_ZeroPeople(t *testing.T) {
	res := Compute(rng("2025-01-01", "2025-01-03"), nil)

	if len(res.CommonDates) != 0 {
		t.Errorf("common dates for empty room = %v, want empty", res.CommonDates)
	}
	// Counts still cover the universe, all zero.
	if len(res.CountsPerDate) != 3 {
		t.Errorf("counts = %v, want one entry per universe date", res.CountsPerDate)
	}
	for d, c := range res.CountsPerDate {
		if c != 0 {
			t.Errorf("count[%s] = %d, want 0", d, c)
		}
	}
}

func TestCompute_EmptyUniverse(t *testing.T) {
	res := Compute(rng("2025-01-03", "2025-01-01"), []domain.Person{{ID: 1}})

	if len(res.CountsPerDate) != 0 || len(res.CommonDates) != 0 {
		t.Errorf("inverted range should derive nothing: %+v", res)
	}
	if len(res.PerPerson[1]) != 0 {
		t.Errorf("person free set = %v, want empty", res.PerPerson[1])
	}
}

func TestCompute_ModeDoesNotAffectAggregation(t *testing.T) {
	base := []domain.Person{{ID: 1, Blocks: "2025-01-02", Mode: domain.ModeBlock}}
	flipped := []domain.Person{{ID: 1, Blocks: "2025-01-02", Mode: domain.ModeWant}}

	a := Compute(rng("2025-01-01", "2025-01-03"), base)
	b := Compute(rng("2025-01-01", "2025-01-03"), flipped)

	for d, c := range a.CountsPerDate {
		if b.CountsPerDate[d] != c {
			t.Errorf("mode changed aggregation for %s: %d vs %d", d, c, b.CountsPerDate[d])
		}
	}
}

func TestRanked(t *testing.T) {
	counts := map[string]int{
		"2025-01-03": 2,
		"2025-01-01": 3,
		"2025-01-02": 3,
		"2025-01-04": 0,
	}

	ranked := Ranked(counts)

	wantOrder := []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"}
	for i, w := range wantOrder {
		if ranked[i].Date != w {
			t.Errorf("ranked[%d] = %s, want %s (full order %v)", i, ranked[i].Date, w, ranked)
		}
	}
}
