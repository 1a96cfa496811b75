package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Stub struct {
	put     *s3.PutObjectInput
	body    string
	deleted *s3.DeleteObjectInput
	err     error
}

func (s *s3Stub) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.put = in
	data, _ := io.ReadAll(in.Body)
	s.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (s *s3Stub) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.deleted = in
	return &s3.DeleteObjectOutput{}, s.err
}

func TestS3StoragePut(t *testing.T) {
	stub := &s3Stub{}
	store, err := NewS3Storage(stub, "site-media", "/uploads/", "https://cdn.example.com/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "1700-board.webp", strings.NewReader("webp"), 4, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/1700-board.webp", url)
	assert.Equal(t, "site-media", aws.ToString(stub.put.Bucket))
	assert.Equal(t, "uploads/1700-board.webp", aws.ToString(stub.put.Key))
	assert.Equal(t, "image/webp", aws.ToString(stub.put.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(stub.put.ContentLength))
	assert.Equal(t, "webp", stub.body)

	require.NoError(t, store.Delete(context.Background(), "1700-board.webp"))
	assert.Equal(t, "uploads/1700-board.webp", aws.ToString(stub.deleted.Key))
}

func TestS3StoragePutError(t *testing.T) {
	store, err := NewS3Storage(&s3Stub{err: errors.New("denied")}, "site-media", "", "https://cdn.example.com")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)

	_, err = NewS3Storage(nil, "", "", "")
	require.Error(t, err)
}
