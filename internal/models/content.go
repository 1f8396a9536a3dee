package models

import "time"

type FAQ struct {
	Record
	Category     string `json:"category" validate:"required"`
	Question     string `json:"question" validate:"required"`
	Answer       string `json:"answer" validate:"required"`
	Views        int    `json:"views" validate:"gte=0"`
	HelpfulCount int    `json:"helpful_count" validate:"gte=0"`
}

func (FAQ) TableName() string { return "faqs" }

type FAQPatch struct {
	Category     *string `json:"category,omitempty"`
	Question     *string `json:"question,omitempty"`
	Answer       *string `json:"answer,omitempty"`
	Views        *int    `json:"views,omitempty" validate:"omitempty,gte=0"`
	HelpfulCount *int    `json:"helpful_count,omitempty" validate:"omitempty,gte=0"`
}

type Notice struct {
	Record
	Title       string    `json:"title" validate:"required,max=200"`
	Content     string    `json:"content" validate:"required"`
	Author      string    `json:"author" validate:"required"`
	IsImportant bool      `json:"is_important"`
	Views       int       `json:"views" validate:"gte=0"`
	PublishedAt time.Time `json:"published_at"`
}

func (Notice) TableName() string { return "notices" }

type NoticePatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Content     *string    `json:"content,omitempty"`
	Author      *string    `json:"author,omitempty"`
	IsImportant *bool      `json:"is_important,omitempty"`
	Views       *int       `json:"views,omitempty" validate:"omitempty,gte=0"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Event is a promotional campaign. Dates are calendar days (YYYY-MM-DD).
type Event struct {
	Record
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive    bool   `json:"is_active"`
	Views       int    `json:"views" validate:"gte=0"`
}

func (Event) TableName() string { return "events" }

type EventPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Views       *int    `json:"views,omitempty" validate:"omitempty,gte=0"`
}

// Subscription is a newsletter sign-up.
type Subscription struct {
	Record
	Email    string `json:"email" validate:"required,email"`
	IsActive bool   `json:"is_active"`
}

func (Subscription) TableName() string { return "subscriptions" }

type SubscriptionPatch struct {
	IsActive *bool `json:"is_active,omitempty"`
}
