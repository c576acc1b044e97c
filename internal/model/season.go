package model

type Season struct {
	ID        string `json:"id"`
	Theme     string `json:"theme"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    bool   `json:"active"`
}

type SeasonProgress struct {
	SeasonID string `json:"season_id"`
	Points   uint64 `json:"points"`
	Tier     int    `json:"tier"`
}

type CreateSeasonRequest struct {
	Theme     string `json:"theme"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type CreateSeasonResponse struct {
	ID string `json:"id"`
}

type ActivateSeasonRequest struct {
	ID string `json:"id"`
}

type ActivateSeasonResponse struct{}

type GetActiveSeasonRequest struct{}

type GetActiveSeasonResponse struct {
	Season   Season          `json:"season"`
	Progress *SeasonProgress `json:"progress,omitempty"`
}
