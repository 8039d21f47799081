package response_models

type DailyViews struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type TopLink struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Clicks int64  `json:"clicks"`
}

type TopReferrer struct {
	Source string `json:"source"`
	Views  int64  `json:"views"`
}

type TopCountry struct {
	Country string `json:"country"`
	Views   int64  `json:"views"`
}

type AnalyticsResponse struct {
	Period           string        `json:"period"`
	TotalViews       int64         `json:"totalViews"`
	TotalClicks      int64         `json:"totalClicks"`
	ClickThroughRate float64       `json:"clickThroughRate"`
	ViewsOverTime    []DailyViews  `json:"viewsOverTime"`
	ClicksOverTime   []DailyClicks `json:"clicksOverTime"`
	TopLinks         []TopLink     `json:"topLinks"`
	TopReferrers     []TopReferrer `json:"topReferrers"`
	TopCountries     []TopCountry  `json:"topCountries"`
}
