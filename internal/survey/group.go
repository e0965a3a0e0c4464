package survey

import "sort"

// Group partitions records by participant, keeping input order inside each
// group before a stable sort on timestamp.
func Group(records []Record) Groups {
	groups := Groups{Series: make(map[string]ParticipantSeries)}
	for _, rec := range records {
		s, ok := groups.Series[rec.ParticipantID]
		if !ok {
			groups.Order = append(groups.Order, rec.ParticipantID)
			s.ParticipantID = rec.ParticipantID
		}
		s.Records = append(s.Records, rec)
		groups.Series[rec.ParticipantID] = s
	}

	for id, s := range groups.Series {
		sort.SliceStable(s.Records, func(i, j int) bool {
			return s.Records[i].Timestamp.Before(s.Records[j].Timestamp)
		})
		groups.Series[id] = s
	}
	return groups
}
