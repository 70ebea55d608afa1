package models

// Operator is an account allowed to drive the pipeline over the HTTP API.
type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never serialized
}
