package models

// HomePageData holds the sections of the home page.
type HomePageData struct {
	TopDaily          []Manga `json:"top_daily"`
	TopAllTime        []Manga `json:"top_all_time"`
	RecommendedManga  []Manga `json:"recommended_manga"`
	RecommendedManhwa []Manga `json:"recommended_manhwa"`
	RecommendedManhua []Manga `json:"recommended_manhua"`
}

// ExplorePageData holds the latest updates per listing type.
type ExplorePageData struct {
	Project []Manga `json:"project"`
	Mirror  []Manga `json:"mirror"`
}
