package http

type ErrorResponse struct {
	Error string `json:"error"`
}

type RoomItem struct {
	ID          int64   `json:"id"`
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	DisplayName string  `json:"display_name"`
	HomeTeam    *string `json:"home_team,omitempty"`
	AwayTeam    *string `json:"away_team,omitempty"`
	ActiveUsers int     `json:"active_users"`
	IsGlobal    bool    `json:"is_global"`
}

type RoomsListResponse struct {
	Items []RoomItem `json:"items"`
}

type ChatMessageItem struct {
	MessageID int64  `json:"message_id"`
	RoomID    int64  `json:"room_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	ChatDate  string `json:"chat_date,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
}

type MessagesResponse struct {
	Items []ChatMessageItem `json:"items"`
}
