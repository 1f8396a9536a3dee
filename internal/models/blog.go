package models

import "time"

// BlogPost is an article on the brand blog. Content is HTML.
type BlogPost struct {
	Record
	Title       string    `json:"title" validate:"required,max=200"`
	Content     string    `json:"content" validate:"required"`
	Excerpt     string    `json:"excerpt" validate:"max=500"`
	Author      string    `json:"author" validate:"required"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags" gorm:"serializer:json;type:text"`
	Featured    bool      `json:"featured"`
	Image       string    `json:"image,omitempty"`
}

func (BlogPost) TableName() string { return "blog_posts" }

type BlogPostPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Content     *string    `json:"content,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Featured    *bool      `json:"featured,omitempty"`
	Image       *string    `json:"image,omitempty"`
}
