package models

// Employee represents an entry of the employee directory
type Employee struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}
