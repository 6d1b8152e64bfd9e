package dto

import "io"

type AuthorResponse struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"display_name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UploadFile is a user-supplied file taken from a multipart form.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

// ToggleResult reports whether a silent toggle/append mutation reached the store.
type ToggleResult struct {
	Applied bool `json:"applied"`
}
