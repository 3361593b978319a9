package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprep-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Region: "us-east-1"})
	require.Error(t, err)
}

// fakeS3 serves path-style PUT and GET requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.headers[r.URL.Path] = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, prefix string) (*Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, headers: map[string]http.Header{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	store := NewFromAWSConfig(awsCfg, Config{Bucket: "resumes", Prefix: prefix, Endpoint: srv.URL})
	return store, fake
}

func TestSaveAndOpenAgainstS3API(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestStore(t, "uploads/")

	key, size, mime, err := store.Save(ctx, "user-1", "cv.txt", strings.NewReader("Jane Doe\nSKILLS\nGo"))
	require.NoError(t, err)
	assert.Equal(t, int64(18), size)
	assert.True(t, strings.HasPrefix(mime, "text/plain"))

	stored, ok := fake.objects["/resumes/uploads/"+key]
	require.True(t, ok, "object written under bucket and prefix")
	assert.Equal(t, "Jane Doe\nSKILLS\nGo", string(stored))
	assert.Equal(t, "AES256", fake.headers["/resumes/uploads/"+key].Get("X-Amz-Server-Side-Encryption"))

	data, err := object.ReadAll(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS\nGo", string(data))
}

func TestSaveWithKeyAndMissingObject(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestStore(t, "")

	n, err := store.SaveWithKey(ctx, "abc/improved.txt", object.TextContentType, strings.NewReader("SUMMARY"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, object.TextContentType, fake.headers["/resumes/abc/improved.txt"].Get("Content-Type"))

	_, err = store.Open(ctx, "abc/missing.txt")
	require.Error(t, err)
}

func TestReadLimitedRejectsOversizedBodies(t *testing.T) {
	_, err := readLimited(strings.NewReader(strings.Repeat("x", MaxObjectBytes+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}
