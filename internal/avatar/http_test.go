package avatar

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

func buildUpload(t *testing.T, userID, contentType string, body []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if userID != "" {
		_ = writer.WriteField("userId", userID)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(body)
	_ = writer.Close()
	return &buf, writer.FormDataContentType()
}

func newUploadRouter(store *fakeMediaStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, NewPipeline(store, 64))
	return router
}

func TestUploadProfilePictureEndpoint(t *testing.T) {
	store := &fakeMediaStore{maxBytes: 5 * 1024 * 1024}
	router := newUploadRouter(store)

	body, contentType := buildUpload(t, "u1", "image/png", encodePNG(t, 80, 40))
	req := httptest.NewRequest(http.MethodPost, "/upload-profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.owner != "u1" {
		t.Fatalf("expected avatar stored for u1, got %q", store.owner)
	}
}

func TestUploadProfilePictureRejectsNonImage(t *testing.T) {
	store := &fakeMediaStore{maxBytes: 5 * 1024 * 1024}
	router := newUploadRouter(store)

	body, contentType := buildUpload(t, "u1", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/upload-profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if store.calls != 0 {
		t.Fatalf("expected no store write")
	}
}

func TestUploadProfilePictureRequiresUserID(t *testing.T) {
	store := &fakeMediaStore{maxBytes: 5 * 1024 * 1024}
	router := newUploadRouter(store)

	body, contentType := buildUpload(t, "", "image/png", encodePNG(t, 40, 40))
	req := httptest.NewRequest(http.MethodPost, "/upload-profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
