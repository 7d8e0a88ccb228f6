package assets

import "time"

// Asset is a stored binary payload addressed by an opaque id.
// FileName is the generated public lookup key used by image URLs.
type Asset struct {
	ID          string    `json:"id"`
	FileName    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	StorageKey  string    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Ref is the owner-side pointer recording which asset, if any,
// currently represents an owner's profile image.
type Ref struct {
	AssetID  *string `json:"fileId"`
	FileName *string `json:"filename"`
}

// IsZero reports whether the reference points at no asset.
func (r Ref) IsZero() bool {
	return r.AssetID == nil || *r.AssetID == ""
}
