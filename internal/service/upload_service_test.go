package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chess-academy-site/internal/models"
	appErrors "github.com/noah-isme/chess-academy-site/pkg/errors"
	"github.com/noah-isme/chess-academy-site/pkg/storage"
)

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (brokenStore) Delete(context.Context, string) error { return nil }

var testMIMEs = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/svg+xml", "image/avif"}

func newUploadForTest(t *testing.T) (*UploadService, string, *recordingAudit) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	audit := &recordingAudit{}
	svc := NewUploadService(store, DefaultMaxUploadBytes, testMIMEs, nil, audit, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, dir, audit
}

func TestUploadStoresAllowedImage(t *testing.T) {
	svc, dir, audit := newUploadForTest(t)
	body := []byte("\x89PNG fake")

	result, err := svc.Upload(context.Background(), adminActor(), &UploadInput{
		Filename: "Board Setup (Final).PNG", Size: int64(len(body)), ContentType: "image/png", Body: bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-board-setup-final.png", result.Filename)
	assert.Equal(t, "/uploads/1700000000000-board-setup-final.png", result.URL)

	stored, err := os.ReadFile(filepath.Join(dir, result.Filename))
	require.NoError(t, err)
	assert.Equal(t, body, stored)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionUpload, audit.logs[0].Action)
}

func TestUploadSizeLimitIsExclusive(t *testing.T) {
	svc, dir, _ := newUploadForTest(t)

	_, err := svc.Upload(context.Background(), adminActor(), &UploadInput{
		Filename: "big.jpg", Size: DefaultMaxUploadBytes, ContentType: "image/jpeg", Body: strings.NewReader("x"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrFileTooLarge.Code, appErr.Code)
	assert.Equal(t, "File too large. Maximum size is 5MB", appErr.Message)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)

	_, err = svc.Upload(context.Background(), adminActor(), &UploadInput{
		Filename: "ok.jpg", Size: DefaultMaxUploadBytes - 1, ContentType: "image/jpeg", Body: strings.NewReader("x"),
	})
	assert.NoError(t, err)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc, _, _ := newUploadForTest(t)

	for _, ct := range []string{"application/pdf", "text/html", ""} {
		_, err := svc.Upload(context.Background(), adminActor(), &UploadInput{
			Filename: "file", Size: 10, ContentType: ct, Body: strings.NewReader("x"),
		})
		require.Error(t, err, ct)
		assert.Equal(t, appErrors.ErrUnsupportedMedia.Code, appErrors.FromError(err).Code)
	}

	_, err := svc.Upload(context.Background(), adminActor(), &UploadInput{
		Filename: "icon", Size: 10, ContentType: "image/svg+xml; charset=utf-8", Body: strings.NewReader("<svg/>"),
	})
	assert.NoError(t, err)
}

func TestUploadRequiresAdminAndFile(t *testing.T) {
	svc, _, _ := newUploadForTest(t)

	_, err := svc.Upload(context.Background(), nil, &UploadInput{Filename: "a.png", Size: 1, ContentType: "image/png", Body: strings.NewReader("x")})
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)

	_, err = svc.Upload(context.Background(), adminActor(), nil)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestUploadStorageFailure(t *testing.T) {
	svc := NewUploadService(brokenStore{}, 0, testMIMEs, nil, nil, nil)

	_, err := svc.Upload(context.Background(), adminActor(), &UploadInput{Filename: "a.png", Size: 1, ContentType: "image/png", Body: strings.NewReader("x")})
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}

func TestUploadFilenameFallsBackToMIMEExtension(t *testing.T) {
	svc, _, _ := newUploadForTest(t)

	assert.Equal(t, "1700000000000-upload.webp", svc.filename("../../", "image/webp"))
	assert.Equal(t, "1700000000000-photo.jpg", svc.filename(`C:\pics\photo`, "image/jpeg"))
}
