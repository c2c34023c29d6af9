package tvmaze

// searchResult is one entry of a /search/shows response.
type searchResult struct {
	Score float64 `json:"score"`
	Show  show    `json:"show"`
}

type show struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Premiered string `json:"premiered"` // "2008-01-20"
	Summary   string `json:"summary"`
}
