package domain

import (
	"net/url"
	"time"
)

type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	TotalOrders int       `json:"totalOrders"`
	TotalSpent  float64   `json:"totalSpent"`
	JoinDate    time.Time `json:"joinDate"`
	LastActive  time.Time `json:"lastActive"`
	Avatar      string    `json:"avatar,omitempty"`
}

func (c Customer) Key() string { return c.ID }

// AvatarURL falls back to a generated initials avatar when none was uploaded.
func (c Customer) AvatarURL() string {
	if c.Avatar != "" {
		return c.Avatar
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(c.Name) + "&background=random"
}
