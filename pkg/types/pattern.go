package types

// PatternTypeLanding marks a pattern record as a landing page.
const PatternTypeLanding = "landing"

// PatternRecord is one row of the server supplied url pattern table.
type PatternRecord struct {
	Query  string `json:"query" mapstructure:"query"`
	PageId string `json:"pageid" mapstructure:"pageid"`
	Type   string `json:"type,omitempty" mapstructure:"type"`
}

func (p PatternRecord) IsLandingPage() bool {
	return p.Type == PatternTypeLanding
}
