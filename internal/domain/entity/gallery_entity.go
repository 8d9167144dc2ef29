package entity

import "time"

// GalleryImage is an uploaded image not bound to a specific article
type GalleryImage struct {
	ID        string    `json:"id"`
	WriterID  string    `json:"writer_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
