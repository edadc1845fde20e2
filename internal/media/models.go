package media

import "time"

// Kind is a coarse classification of a stored object.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

// UploadDescriptor carries the caller-declared properties of an upload.
type UploadDescriptor struct {
	FileName string
	MimeType string
	ByteSize int64
	FolderID string
}

// StoredObject describes an object after a synchronous write.
type StoredObject struct {
	FileID    string `json:"fileId"`
	ObjectKey string `json:"objectKey"`
	FileName  string `json:"fileName"`
	FileURL   string `json:"fileUrl"`
}

// UploadGrant is a time-limited authorization for a direct client-to-store upload.
// Grants are not tracked after issuance; the store enforces expiry.
type UploadGrant struct {
	PresignedURL string    `json:"presignedUrl"`
	FileID       string    `json:"fileId"`
	ObjectKey    string    `json:"objectKey"`
	FileURL      string    `json:"fileUrl"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// FolderEntry is one object in a folder listing.
type FolderEntry struct {
	FileID       string    `json:"fileId"`
	FileName     string    `json:"fileName"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	ObjectKey    string    `json:"objectKey"`
	LastModified time.Time `json:"lastModified"`
	Kind         Kind      `json:"type"`
}

// FetchedObject is the payload of a successful fetch.
type FetchedObject struct {
	Body        []byte
	ContentType string
	FileName    string
}
