package interest

// User ids travel as decimal strings.

type ActionRequest struct {
	ActorUserID  string         `json:"actor_user_id"`
	TargetUserID string         `json:"target_user_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type ActionResponse struct {
	ActionID string `json:"action_id"`
	IsMatch  bool   `json:"is_match"`
	MatchID  string `json:"match_id,omitempty"`
}

type BlockRequest struct {
	ActorUserID  string `json:"actor_user_id"`
	TargetUserID string `json:"target_user_id"`
	Reason       string `json:"reason,omitempty"`
}

type ReportRequest struct {
	ActorUserID  string `json:"actor_user_id"`
	TargetUserID string `json:"target_user_id"`
	Reason       string `json:"reason,omitempty"`
	Description  string `json:"description,omitempty"`
}

type UndoRequest struct {
	ActorUserID string `json:"actor_user_id"`
}

type UndoResponse struct {
	UndoneActionID string `json:"undone_action_id"`
	TargetUserID   string `json:"target_user_id"`
	ActionType     string `json:"action_type"`
}

// ListRequest pages with either PageToken or Limit/Offset; a token wins.
type ListRequest struct {
	UserID    string `json:"user_id"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type Action struct {
	ID                 string         `json:"id"`
	TargetUserID       string         `json:"target_user_id"`
	ActionType         string         `json:"action_type"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAtUnixMilli int64          `json:"created_at_unix_milli"`
	Undone             bool           `json:"undone"`
	UndoneAtUnixMilli  int64          `json:"undone_at_unix_milli,omitempty"`
}

type ActionHistoryResponse struct {
	Actions       []Action `json:"actions"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

type Liker struct {
	ActorUserID   string `json:"actor_user_id"`
	ActionType    string `json:"action_type"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

type LikedYouResponse struct {
	Likers        []Liker `json:"likers"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

type CountLikedYouRequest struct {
	RecipientUserID string `json:"recipient_user_id"`
}

type CountLikedYouResponse struct {
	Count  uint64 `json:"count"`
	Cached bool   `json:"cached"`
}

type Match struct {
	MatchID            string `json:"match_id"`
	PartnerUserID      string `json:"partner_user_id"`
	MatchedAtUnixMilli int64  `json:"matched_at_unix_milli"`
}

type MatchesResponse struct {
	Matches       []Match `json:"matches"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

type QueueRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

type Candidate struct {
	CandidateUserID    string  `json:"candidate_user_id"`
	CompatibilityScore float64 `json:"compatibility_score"`
	BoostScore         float64 `json:"boost_score"`
	FinalScore         float64 `json:"final_score"`
	Priority           int     `json:"priority"`
}

type QueueResponse struct {
	Candidates []Candidate `json:"candidates"`
}
