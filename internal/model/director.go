package model

// Director represents a row in the `directors` table.
type Director struct {
	ID   uint64 `json:"id"`   // directors.id
	Name string `json:"name"` // directors.name
}
