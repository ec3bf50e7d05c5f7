package domain

import "time"

type Movie struct {
	ID       string
	Title    string
	Duration time.Duration
	Genre    string
	ShowIDs  []ShowID
}
