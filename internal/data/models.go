package data

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DocumentID is the key of the single About and Contact documents.
const DocumentID = "v2"

// About is the profile page document. Profile and Works hold rich-text
// payloads. Timestamps are unix milliseconds and absent on documents that
// were never saved through the dashboard.
type About struct {
	ID             string `db:"id"`
	IconObjectPath string `db:"icon_object_path"`
	Profile        string `db:"profile"`
	Works          string `db:"works"`
	CreatedAt      *int64 `db:"created_at"`
	UpdatedAt      *int64 `db:"updated_at"`
}

// Contact is the contact page document.
type Contact struct {
	ID        string `db:"id"`
	Content   string `db:"content"`
	CreatedAt *int64 `db:"created_at"`
	UpdatedAt *int64 `db:"updated_at"`
}

// GalleryItem is one image of the gallery. URL is the resolved download URL
// and ObjectPath the key of the image in object storage.
type GalleryItem struct {
	ID          string `db:"id"`
	URL         string `db:"url"`
	ObjectPath  string `db:"object_path"`
	Width       int    `db:"width"`
	Height      int    `db:"height"`
	Filename    string `db:"filename"`
	Title       string `db:"title"`
	Description string `db:"description"`
	InSlideView bool   `db:"in_slide_view"`
	CreatedAt   *int64 `db:"created_at"`
	UpdatedAt   *int64 `db:"updated_at"`
}

// User is a dashboard account signing in with email and password.
type User struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}
