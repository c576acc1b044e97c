package model

type Subscription struct {
	FollowedID  string   `json:"followed_id"`
	EventTypes  []string `json:"event_types,omitempty"`
	MinimumRank string   `json:"minimum_rank"`
}

type FollowRequest struct {
	FollowedID  string   `json:"followed_id"`
	EventTypes  []string `json:"event_types"`
	MinimumRank string   `json:"minimum_rank"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	FollowedID string `json:"followed_id"`
}

type UnfollowResponse struct{}

type GetSubscriptionsRequest struct{}

type GetSubscriptionsResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

type GetFeedRequest struct{}

type GetFeedResponse struct {
	Events []CanonEvent `json:"events"`
}
