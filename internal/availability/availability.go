// Package availability derives per-person availability, per-date counts, and
// the common-availability set from a room's range and participants.
//
// Everything is a pure function of (range, people): no state, no I/O. Callers
// recompute after every room mutation or incoming snapshot.
package availability

import (
	"sort"

	"github.com/whenworksapp/whenworks-server/internal/domain"
)

// Result holds the derived availability views for one room snapshot.
type Result struct {
	// PerPerson maps person id to the set of dates that person is free.
	PerPerson map[int]map[string]struct{}
	// CountsPerDate maps each date in the universe to the number of people
	// free on it.
	CountsPerDate map[string]int
	// CommonDates is the set of dates every participant is free on. For a
	// room with no participants this is empty: "everyone is free" is
	// meaningless with nobody to ask.
	CommonDates map[string]struct{}
}

// Compute derives availability for the given range and participants.
//
// A person with a non-empty wants set is a candidate only on wanted dates;
// otherwise the whole universe is their candidate set. Blocked dates are
// subtracted in either case.
func Compute(rng domain.DateRange, people []domain.Person) Result {
	universe := rng.Universe()

	res := Result{
		PerPerson:     make(map[int]map[string]struct{}, len(people)),
		CountsPerDate: make(map[string]int, len(universe)),
		CommonDates:   make(map[string]struct{}),
	}
	for _, d := range universe {
		res.CountsPerDate[d] = 0
	}

	for _, p := range people {
		blocks := p.BlockSet()
		wants := p.WantSet()

		free := make(map[string]struct{})
		for _, d := range universe {
			if len(wants) > 0 {
				if _, wanted := wants[d]; !wanted {
					continue
				}
			}
			if _, blocked := blocks[d]; blocked {
				continue
			}
			free[d] = struct{}{}
			res.CountsPerDate[d]++
		}
		res.PerPerson[p.ID] = free
	}

	if len(people) > 0 {
		for _, d := range universe {
			if res.CountsPerDate[d] == len(people) {
				res.CommonDates[d] = struct{}{}
			}
		}
	}

	return res
}

// RankedDate is one entry of the ranking view.
type RankedDate struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Ranked returns counts sorted by count descending, ties broken by date key
// ascending. Used for "top candidate dates" displays.
func Ranked(counts map[string]int) []RankedDate {
	out := make([]RankedDate, 0, len(counts))
	for d, c := range counts {
		out = append(out, RankedDate{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Date < out[j].Date
	})
	return out
}
