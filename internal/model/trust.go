package model

type TrustEdge struct {
	// TargetUserID is empty when the graph is requested anonymized; Ordinal
	// identifies the edge instead.
	TargetUserID   string   `json:"target_user_id,omitempty"`
	Ordinal        int      `json:"ordinal"`
	TrustScore     float64  `json:"trust_score"`
	LastSeen       string   `json:"last_seen"`
	SharedEventIDs []string `json:"shared_event_ids,omitempty"`
}

type RebuildTrustGraphRequest struct {
	UserID string `json:"user_id"`
}

type RebuildTrustGraphResponse struct {
	SnapshotID string `json:"snapshot_id"`
	GraphDate  string `json:"graph_date"`
	EdgeCount  int    `json:"edge_count"`
}

type GetTrustGraphRequest struct {
	UserID    string `json:"user_id" form:"user_id"`
	Anonymize bool   `json:"anonymize" form:"anonymize"`
}

type GetTrustGraphResponse struct {
	SnapshotID string      `json:"snapshot_id"`
	GraphDate  string      `json:"graph_date"`
	AsOf       string      `json:"as_of"`
	Edges      []TrustEdge `json:"edges"`
}
