package devenv

// StatshubTestConfig gates the live scraping tests. Drop a
// statshub.json5 into dev/.state to run them against the real site.
type StatshubTestConfig struct {
	BaseUrl string `json:"base_url"`
	// MatchUrl points at a fixture page with position stats available.
	MatchUrl string `json:"match_url"`
	// Headed runs the live tests with a visible browser window.
	Headed bool `json:"headed"`
}
