package entity

import "time"

type Chat struct {
	ID            string    `json:"_id"`
	Users         []string  `json:"users"`
	LatestMessage string    `json:"latestMessage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (c *Chat) HasMember(userID string) bool {
	for _, u := range c.Users {
		if u == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID        string    `json:"_id"`
	ChatID    string    `json:"chat"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
