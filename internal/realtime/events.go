package realtime

// Payloads for the events the collaboration services publish. Field names
// match what the feed script expects on the wire.

type VoteUpdate struct {
	SubjectID uint `json:"subjectId"`
	Score     int  `json:"score"`
	UserVote  int  `json:"userVote"`
	UserID    uint `json:"userId"`
}

type CommentAdded struct {
	PostID   uint   `json:"postId"`
	ID       uint   `json:"id"`
	User     string `json:"user"`
	Avatar   string `json:"avatar"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	ParentID *uint  `json:"parentId"`
}

type CommentEdited struct {
	CommentID uint   `json:"commentId"`
	Content   string `json:"content"`
}

type CommentDeleted struct {
	CommentID uint `json:"commentId"`
	PostID    uint `json:"postId"`
	// TopLevel tells clients whether the post's visible comment count changed.
	TopLevel bool `json:"topLevel"`
}

type PostEdited struct {
	PostID  uint   `json:"postId"`
	Content string `json:"content"`
}

type PostDeleted struct {
	PostID uint `json:"postId"`
}

type ChatUpdate struct {
	ChatID       uint   `json:"chatId"`
	IsPrivate    bool   `json:"isPrivate"`
	LastActivity string `json:"lastActivity"`
}
