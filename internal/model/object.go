package model

import "time"

const DefaultTimeLayout = time.RFC3339

type ShortUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

type User struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	Bio                string `json:"bio"`
	Avatar             string `json:"avatar"`
	Role               string `json:"role"`
	IsVerified         bool   `json:"is_verified"`
	IsPrivate          bool   `json:"is_private"`
	IsModerator        bool   `json:"is_moderator"`
	IsBanned           bool   `json:"is_banned"`
	CanReceiveMessages bool   `json:"can_receive_messages"`
	FollowerCount      int64  `json:"follower_count"`
	FollowingCount     int64  `json:"following_count"`
	PostCount          int64  `json:"post_count"`
	CreatedAt          string `json:"created_at"`
}

type PopularUser struct {
	ShortUser
	FollowerCount int64 `json:"follower_count"`
}

type Post struct {
	ID            string    `json:"id"`
	Author        ShortUser `json:"author"`
	Content       string    `json:"content"`
	MediaType     string    `json:"media_type"`
	MediaFilename string    `json:"media_filename"`
	ReplyToID     string    `json:"reply_to_id,omitempty"`
	IsEdited      bool      `json:"is_edited"`
	IsDeleted     bool      `json:"is_deleted"`
	LikeCount     int       `json:"like_count"`
	RetweetCount  int       `json:"retweet_count"`
	ReplyCount    int       `json:"reply_count"`
	Liked         bool      `json:"liked"`
	Retweeted     bool      `json:"retweeted"`
	CreatedAt     string    `json:"created_at"`
}

type EditHistoryEntry struct {
	Content  string `json:"content"`
	EditedAt string `json:"edited_at"`
}

type Hashtag struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Reaction struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type PollOption struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
	Votes    int    `json:"votes"`
}

type Poll struct {
	ID            string       `json:"id"`
	PostID        string       `json:"post_id"`
	Question      string       `json:"question"`
	Options       []PollOption `json:"options"`
	TotalVotes    int          `json:"total_votes"`
	Closed        bool         `json:"closed"`
	EndTime       string       `json:"end_time"`
	VotedOptionID string       `json:"voted_option_id,omitempty"`
}

type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	ActorID   string `json:"actor_id,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type Report struct {
	ID             string `json:"id"`
	ReporterID     string `json:"reporter_id"`
	ReportedUserID string `json:"reported_user_id,omitempty"`
	PostID         string `json:"post_id,omitempty"`
	Reason         string `json:"reason"`
	Status         string `json:"status"`
	ResolvedBy     string `json:"resolved_by,omitempty"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
	CreatedAt   string `json:"created_at"`
}

type Dialog struct {
	User        ShortUser `json:"user"`
	LastMessage Message   `json:"last_message"`
}

type Draft struct {
	ID            string `json:"id"`
	Content       string `json:"content"`
	MediaType     string `json:"media_type"`
	MediaFilename string `json:"media_filename"`
	UpdatedAt     string `json:"updated_at"`
}

type LiveStream struct {
	ID           string    `json:"id"`
	User         ShortUser `json:"user"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StreamKey    string    `json:"stream_key,omitempty"`
	IsLive       bool      `json:"is_live"`
	StartedAt    string    `json:"started_at"`
	EndedAt      string    `json:"ended_at,omitempty"`
	ViewersCount int       `json:"viewers_count"`
}

type Advertisement struct {
	ID          string  `json:"id"`
	CreatedBy   string  `json:"created_by"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	ImageURL    string  `json:"image_url"`
	TargetURL   string  `json:"target_url"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget"`
	Spent       float64 `json:"spent"`
	Status      string  `json:"status"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
}

type Webhook struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Events    []string `json:"events"`
	Secret    string   `json:"secret,omitempty"`
	IsActive  bool     `json:"is_active"`
	CreatedAt string   `json:"created_at"`
}

type AccessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
