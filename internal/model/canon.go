package model

type CanonEvent struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"owner_user_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Rank        string `json:"rank"`
	VoteScore   int64  `json:"vote_score"`
	CreatedAt   string `json:"created_at"`
}

type VoteCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type CreateCanonEventRequest struct {
	OwnerUserID string `json:"owner_user_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
}

type CreateCanonEventResponse struct {
	Event CanonEvent `json:"event"`
}

type GetCanonEventRequest struct {
	ID string `json:"id" form:"id"`
}

type GetCanonEventResponse struct {
	Event         CanonEvent  `json:"event"`
	VoteBreakdown []VoteCount `json:"vote_breakdown"`
}

type GetListCanonEventRequest struct {
	OwnerUserID string `json:"owner_user_id" form:"owner_user_id"`
	Type        string `json:"type" form:"type"`
	Offset      int    `json:"offset" form:"offset"`
	Limit       int    `json:"limit" form:"limit"`
}

type GetListCanonEventResponse struct {
	Events []CanonEvent `json:"events"`
}

type VoteCanonEventRequest struct {
	EventID  string `json:"event_id"`
	VoteType string `json:"vote_type"`
}

type VoteCanonEventResponse struct {
	Active    bool   `json:"active"`
	VoteScore int64  `json:"vote_score"`
	Upvotes   int    `json:"upvotes"`
	Rank      string `json:"rank"`
}
