package domain

import "time"

// Article is a help page. Content is HTML and rendered as-is by the console.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Article) GetID() string   { return a.ID }
func (a *Article) SetID(id string) { a.ID = id }
