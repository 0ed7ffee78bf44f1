package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Client struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
