package coverage

// Summary aggregates the results of one target. Either counts pointers observed
// with at least one polarity, Both those observed passing and failing.
type Summary struct {
	ID        string  `json:"id"`
	Total     int     `json:"total"`
	Either    int     `json:"either"`
	Both      int     `json:"both"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Rate      float64 `json:"coverage"`
}

// Summarize computes the summary of one target's results.
// Rate is (Both+Either)/2/Total, or 0 for a target without pointers.
func Summarize(id string, results []Result) Summary {
	s := Summary{ID: id, Total: len(results)}
	for _, r := range results {
		if r.Succeeded {
			s.Succeeded++
		}
		if r.Failed {
			s.Failed++
		}
		if r.Succeeded || r.Failed {
			s.Either++
		}
		if r.Succeeded && r.Failed {
			s.Both++
		}
	}
	if s.Total > 0 {
		s.Rate = float64(s.Both+s.Either) / 2 / float64(s.Total)
	}
	return s
}

// Summaries returns one Summary per target in Order.
func (rs ResultSet) Summaries() []Summary {
	out := make([]Summary, 0, len(rs.Order))
	for _, id := range rs.Order {
		out = append(out, Summarize(id, rs.Results[id]))
	}
	return out
}
