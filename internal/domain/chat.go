package domain

type ChatID string

// Chat is the directory view of a conversation: display name plus the
// full member list. Membership here is the persisted one, not the set of
// connections currently viewing the chat.
type Chat struct {
	ID      ChatID   `json:"chatId"`
	Name    string   `json:"name"`
	Members []UserID `json:"members"`
}
