package model

import "strings"

type User struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileNo"`
}

// DisplayName falls back to "User" when the profile has no name yet.
func (u *User) DisplayName() string {
	if u == nil || u.FullName == "" {
		return "User"
	}
	return u.FullName
}

// Initials returns up to two upper-case initials of the display name.
func (u *User) Initials() string {
	var out []rune
	start := true
	for _, r := range u.DisplayName() {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
