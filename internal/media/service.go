package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const (
	postPrefix   = "posts"
	avatarPrefix = "profile-pictures"
)

// objectStore is the seam between the gateway and the S3-compatible backend.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error)
}

// Options parameterize a Service beyond its store dependency.
type Options struct {
	Bucket         string
	Region         string
	MaxUploadBytes int64
	MaxAvatarBytes int64
	PresignTTL     time.Duration
	PublicBaseURL  string
	Logger         *slog.Logger
}

// Service mediates all reads and writes of binary artifacts between the
// application and the object store, enforcing size and type policy.
type Service struct {
	store          objectStore
	bucket         string
	region         string
	maxUploadBytes int64
	maxAvatarBytes int64
	presignTTL     time.Duration
	publicBaseURL  string
	logger         *slog.Logger

	ensureOnce sync.Once
	ensureErr  error
}

// NewService constructs a media service.
func NewService(store objectStore, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          store,
		bucket:         opts.Bucket,
		region:         opts.Region,
		maxUploadBytes: opts.MaxUploadBytes,
		maxAvatarBytes: opts.MaxAvatarBytes,
		presignTTL:     opts.PresignTTL,
		publicBaseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		logger:         logger,
	}
}

// IssueGrant validates the descriptor and returns a presigned direct-upload
// URL. The grant is not tracked after issuance; the store enforces expiry.
func (s *Service) IssueGrant(ctx context.Context, desc UploadDescriptor) (UploadGrant, error) {
	ext, err := s.validateUpload(desc)
	if err != nil {
		return UploadGrant{}, err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return UploadGrant{}, err
	}

	fileID := uuid.NewString()
	objectKey := postKey(desc.FolderID, fileID, ext)

	presigned, err := s.store.PresignedPutObject(ctx, s.bucket, objectKey, s.presignTTL)
	if err != nil {
		s.logger.Error("presign upload", "objectKey", objectKey, "error", err)
		return UploadGrant{}, fmt.Errorf("%w: presign object", ErrStore)
	}

	return UploadGrant{
		PresignedURL: presigned.String(),
		FileID:       fileID,
		ObjectKey:    objectKey,
		FileURL:      s.fileURL(desc.FolderID, fileID),
		ExpiresAt:    time.Now().Add(s.presignTTL),
	}, nil
}

// Store writes the object synchronously, used when no presigned flow is needed.
func (s *Service) Store(ctx context.Context, reader io.Reader, desc UploadDescriptor) (StoredObject, error) {
	ext, err := s.validateUpload(desc)
	if err != nil {
		return StoredObject{}, err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return StoredObject{}, err
	}

	fileID := uuid.NewString()
	objectKey := postKey(desc.FolderID, fileID, ext)

	putOpts := minio.PutObjectOptions{
		ContentType:  normalizeMime(desc.MimeType),
		UserMetadata: map[string]string{"original-filename": sanitizeFilename(desc.FileName)},
	}

	info, err := s.store.PutObject(ctx, s.bucket, objectKey, reader, desc.ByteSize, putOpts)
	if err != nil {
		s.logger.Error("store object", "objectKey", objectKey, "error", err)
		return StoredObject{}, fmt.Errorf("%w: put object", ErrStore)
	}

	// declared size passed validation; re-check what actually landed
	if info.Size > s.maxUploadBytes {
		_ = s.store.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
		return StoredObject{}, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxUploadBytes)
	}

	return StoredObject{
		FileID:    fileID,
		ObjectKey: objectKey,
		FileName:  sanitizeFilename(desc.FileName),
		FileURL:   s.fileURL(desc.FolderID, fileID),
	}, nil
}

// Fetch resolves a folder-scoped object. When extHint is empty the known
// extensions are probed in their fixed order and the first hit wins.
func (s *Service) Fetch(ctx context.Context, folderID, fileID, extHint string) (FetchedObject, error) {
	if folderID == "" || fileID == "" {
		return FetchedObject{}, fmt.Errorf("%w: folder and file ids are required", ErrValidation)
	}

	if extHint != "" {
		return s.fetchKey(ctx, postKey(folderID, fileID, strings.ToLower(extHint)))
	}

	for _, ext := range probeExtensions {
		objectKey := postKey(folderID, fileID, ext)
		_, err := s.store.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
		if err != nil {
			if isNotFound(err) {
				continue
			}
			s.logger.Error("stat object", "objectKey", objectKey, "error", err)
			return FetchedObject{}, fmt.Errorf("%w: stat object", ErrStore)
		}
		return s.fetchKey(ctx, objectKey)
	}

	return FetchedObject{}, fmt.Errorf("%w: %s/%s", ErrNotFound, folderID, fileID)
}

// FetchLegacy resolves a flat-namespace object from explicit type and
// extension hints, e.g. "documents/<id>.pdf".
func (s *Service) FetchLegacy(ctx context.Context, fileType, fileID, ext string) (FetchedObject, error) {
	if fileType == "" || fileID == "" || ext == "" {
		return FetchedObject{}, fmt.Errorf("%w: type, id and ext are required", ErrValidation)
	}
	return s.fetchKey(ctx, legacyKey(fileType, fileID, ext))
}

// ListFolder returns the folder's objects. A folder with no objects yields an
// empty list, not an error.
func (s *Service) ListFolder(ctx context.Context, folderID string) ([]FolderEntry, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: folder id is required", ErrValidation)
	}

	prefix := postPrefix + "/" + folderID + "/"
	entries := []FolderEntry{}

	for info := range s.store.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			s.logger.Error("list folder", "prefix", prefix, "error", info.Err)
			return nil, fmt.Errorf("%w: list objects", ErrStore)
		}

		contentType := info.ContentType
		if contentType == "" {
			contentType = contentTypeForKey(info.Key)
		}

		base := path.Base(info.Key)
		entries = append(entries, FolderEntry{
			FileID:       strings.TrimSuffix(base, path.Ext(base)),
			FileName:     base,
			Size:         info.Size,
			ContentType:  contentType,
			ObjectKey:    info.Key,
			LastModified: info.LastModified,
			Kind:         classifyMime(contentType),
		})
	}

	return entries, nil
}

// DeleteFolder removes every object under the folder's key prefix. The
// listing is snapshotted first, then objects are removed one by one; partial
// failures are aggregated and nothing is rolled back. An upload racing the
// snapshot can leave an orphaned object behind.
func (s *Service) DeleteFolder(ctx context.Context, folderID string) (int, error) {
	if folderID == "" {
		return 0, fmt.Errorf("%w: folder id is required", ErrValidation)
	}

	prefix := postPrefix + "/" + folderID + "/"
	var keys []string
	for info := range s.store.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			s.logger.Error("list folder for delete", "prefix", prefix, "error", info.Err)
			return 0, fmt.Errorf("%w: list objects", ErrStore)
		}
		keys = append(keys, info.Key)
	}

	removed := 0
	var failures []error
	for _, key := range keys {
		if err := s.store.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Error("remove object", "objectKey", key, "error", err)
			failures = append(failures, fmt.Errorf("remove %s: %w", key, err))
			continue
		}
		removed++
	}

	if len(failures) > 0 {
		return removed, fmt.Errorf("%w: %d of %d objects not removed: %w", ErrStore, len(failures), len(keys), errors.Join(failures...))
	}

	return removed, nil
}

// StoreAvatar writes a normalized profile picture under the owner-keyed
// namespace. The key is stable per owner, so the serving URL never changes.
func (s *Service) StoreAvatar(ctx context.Context, ownerID string, jpeg []byte) (StoredObject, error) {
	if ownerID == "" {
		return StoredObject{}, fmt.Errorf("%w: owner id is required", ErrValidation)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return StoredObject{}, err
	}

	objectKey := avatarKey(ownerID)
	putOpts := minio.PutObjectOptions{ContentType: "image/jpeg"}

	if _, err := s.store.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(jpeg), int64(len(jpeg)), putOpts); err != nil {
		s.logger.Error("store avatar", "objectKey", objectKey, "error", err)
		return StoredObject{}, fmt.Errorf("%w: put object", ErrStore)
	}

	return StoredObject{
		FileID:    ownerID,
		ObjectKey: objectKey,
		FileName:  ownerID + ".jpg",
		FileURL:   s.publicBaseURL + "/get-user-profile/" + ownerID + ".jpg?userId=" + url.QueryEscape(ownerID),
	}, nil
}

// FetchAvatar reads the current profile picture for the owner.
func (s *Service) FetchAvatar(ctx context.Context, ownerID string) (FetchedObject, error) {
	if ownerID == "" {
		return FetchedObject{}, fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	return s.fetchKey(ctx, avatarKey(ownerID))
}

func (s *Service) fetchKey(ctx context.Context, objectKey string) (FetchedObject, error) {
	obj, err := s.store.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return FetchedObject{}, s.classifyFetchErr(objectKey, err)
	}
	defer obj.Close()

	// minio defers missing-key errors to the first read
	body, err := io.ReadAll(obj)
	if err != nil {
		return FetchedObject{}, s.classifyFetchErr(objectKey, err)
	}

	return FetchedObject{
		Body:        body,
		ContentType: contentTypeForKey(objectKey),
		FileName:    path.Base(objectKey),
	}, nil
}

func (s *Service) classifyFetchErr(objectKey string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, objectKey)
	}
	s.logger.Error("fetch object", "objectKey", objectKey, "error", err)
	return fmt.Errorf("%w: get object", ErrStore)
}

// ensureBucket lazily creates the backing bucket, once per process.
func (s *Service) ensureBucket(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.store.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = fmt.Errorf("%w: check bucket: %v", ErrStore, err)
			return
		}
		if exists {
			return
		}
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			s.ensureErr = fmt.Errorf("%w: create bucket: %v", ErrStore, err)
		}
	})
	return s.ensureErr
}

func (s *Service) validateUpload(desc UploadDescriptor) (string, error) {
	if strings.TrimSpace(desc.FileName) == "" {
		return "", fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if desc.FolderID == "" {
		return "", fmt.Errorf("%w: folder id is required", ErrValidation)
	}
	if desc.ByteSize <= 0 {
		return "", fmt.Errorf("%w: file size is required", ErrValidation)
	}
	if desc.ByteSize > s.maxUploadBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxUploadBytes)
	}

	canonicalExt, ok := allowedMimeType(desc.MimeType)
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %q", ErrValidation, desc.MimeType)
	}

	// keep the caller's extension when the name carries one, e.g. jpeg vs jpg
	if ext := extensionFromName(desc.FileName); ext != "" {
		if _, known := extensionContentTypes[ext]; known {
			return ext, nil
		}
	}
	return canonicalExt, nil
}

func (s *Service) fileURL(folderID, fileID string) string {
	return s.publicBaseURL + "/cdn/" + folderID + "/" + fileID
}

// MaxAvatarBytes exposes the avatar size ceiling to the upload pipeline.
func (s *Service) MaxAvatarBytes() int64 {
	return s.maxAvatarBytes
}

func postKey(folderID, fileID, ext string) string {
	return fmt.Sprintf("%s/%s/%s.%s", postPrefix, folderID, fileID, ext)
}

func legacyKey(fileType, fileID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", fileType, fileID, ext)
}

func avatarKey(ownerID string) string {
	return fmt.Sprintf("%s/%s.jpg", avatarPrefix, ownerID)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	return name
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404
}
