package espn

// The core API represents related resources as $ref links; only the fields
// the ingest pipeline reads are modeled here.

// Ref is a link to another core API resource.
type Ref struct {
	Ref string `json:"$ref"`
}

// ListResponse is the paged envelope used by collection endpoints.
type ListResponse struct {
	Count     int   `json:"count"`
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Items     []Ref `json:"items"`
}

// Athlete is a driver profile.
type Athlete struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	DisplayName  string `json:"displayName"`
	ShortName    string `json:"shortName"`
	Abbreviation string `json:"abbreviation"`
	Headshot     *Image `json:"headshot"`
	Flag         *Image `json:"flag"`
}

// Team is a constructor profile.
type Team struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"displayName"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	Color        string  `json:"color"`
	Logos        []Image `json:"logos"`
}

// Image is a hosted asset reference.
type Image struct {
	Href string `json:"href"`
}

// StandingsResponse is the season standings envelope.
type StandingsResponse struct {
	Standings []StandingEntry `json:"standings"`
}

// StandingEntry is one ranked competitor in an ESPN standings table. Driver
// standings link an athlete, constructor standings a manufacturer.
type StandingEntry struct {
	Athlete      Ref            `json:"athlete"`
	Manufacturer Ref            `json:"manufacturer"`
	Records      []RecordDetail `json:"records"`
}

// RecordDetail holds the stat lines for a standing entry.
type RecordDetail struct {
	Stats []Stat `json:"stats"`
}

// Stat is a single named statistic.
type Stat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChampionshipPoints extracts the season point total from a standing entry.
// Older seasons report it as "championshipPts", some as "points".
func (e StandingEntry) ChampionshipPoints() float64 {
	if len(e.Records) == 0 {
		return 0
	}
	var points float64
	for _, stat := range e.Records[0].Stats {
		switch stat.Name {
		case "championshipPts":
			return stat.Value
		case "points":
			points = stat.Value
		}
	}
	return points
}
