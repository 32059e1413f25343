package dto

import "time"

// LoginRequest defines the credentials for a badge-number login.
type LoginRequest struct {
	BadgeNumber string `json:"badgeNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the resolved agent.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Agent     AgentResponse `json:"agent"`
}
