package wifi

import "context"

// Summary is the record sequence plus counts
type Summary struct {
	Platform     Platform `json:"platform,omitempty"`
	Records      []Record `json:"records"`
	Total        int      `json:"total"`
	Found        int      `json:"found"`
	NotFound     int      `json:"not_found"`
	Unauthorized int      `json:"unauthorized"`
}

// Summarize counts records without altering them
func Summarize(records []Record) Summary {
	s := Summary{Records: records, Total: len(records)}
	if s.Records == nil {
		s.Records = []Record{}
	}
	for _, r := range records {
		switch r.Retrievability {
		case Found:
			s.Found++
		case Unauthorized:
			s.Unauthorized++
		default:
			s.NotFound++
		}
	}
	return s
}

// Collect enumerates identifiers and extracts exactly one record per distinct
// identifier, in enumeration order. An enumeration failure returns an empty
// summary together with the diagnostic; callers report it and carry on.
func Collect(ctx context.Context, backend Backend) (Summary, error) {
	ids, err := backend.Enumerate(ctx)
	if err != nil {
		s := Summarize(nil)
		s.Platform = backend.Platform()
		return s, err
	}

	ids = dedupe(ids)
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, backend.Extract(ctx, id))
	}

	s := Summarize(records)
	s.Platform = backend.Platform()
	return s, nil
}

func dedupe(ids []string) []string {
	return MergeNetworks(ids, nil)
}
