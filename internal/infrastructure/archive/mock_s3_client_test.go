package archive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockS3Client is an in-memory S3API for tests
type MockS3Client struct {
	mu      sync.Mutex
	objects map[string]mockObject

	// PutErr and ListErr, when set, are returned by the matching call
	PutErr  error
	ListErr error
}

type mockObject struct {
	content      []byte
	contentType  string
	lastModified time.Time
}

// NewMockS3Client creates an empty mock client
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{objects: make(map[string]mockObject)}
}

// PutObject stores the object body in memory
func (m *MockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return nil, m.PutErr
	}

	content, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body failed: %w", err)
	}

	obj := mockObject{content: content, lastModified: time.Now().UTC()}
	if input.ContentType != nil {
		obj.contentType = *input.ContentType
	}
	m.objects[aws.ToString(input.Key)] = obj

	return &s3.PutObjectOutput{}, nil
}

// ListObjectsV2 lists stored objects matching the prefix, in key order
func (m *MockS3Client) ListObjectsV2(_ context.Context, input *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	prefix := aws.ToString(input.Prefix)
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	contents := make([]types.Object, 0, len(keys))
	for _, key := range keys {
		obj := m.objects[key]
		contents = append(contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.content))),
			LastModified: aws.Time(obj.lastModified),
		})
	}

	return &s3.ListObjectsV2Output{
		Contents: contents,
		KeyCount: aws.Int32(int32(len(contents))),
	}, nil
}

// Object returns a stored object's content and content type
func (m *MockS3Client) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.content, obj.contentType, true
}
