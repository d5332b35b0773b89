package models

import "strings"

// User is a team member whose progress is tracked. Users are created by
// signup on the server; the client only ever reads them.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Initials returns up to two uppercase letters for avatar-style display.
func (u User) Initials() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return "?"
	}
	if len(fields) == 1 {
		r := []rune(fields[0])
		if len(r) == 1 {
			return strings.ToUpper(string(r[0]))
		}
		return strings.ToUpper(string(r[:2]))
	}
	first := []rune(fields[0])
	last := []rune(fields[len(fields)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}
