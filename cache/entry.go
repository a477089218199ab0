package cache

import "time"

type Entry struct {
	Query        string    `json:"query"`
	Instructions string    `json:"instructions"`
	UpdatedAt    time.Time `json:"updated_at"`
}
