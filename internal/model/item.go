package model

// Todo is the domain model for a todo card.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// New builds a pending todo with the given id.
func New(id, title, text string) Todo {
	return Todo{ID: id, Title: title, Text: text}
}
