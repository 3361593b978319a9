// Package object stores uploaded resumes, extracted text and improved resumes.
package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

const (
	// TextContentType is used for extracted and improved resume text.
	TextContentType = "text/plain; charset=utf-8"

	extractedSuffix = ".extracted.txt"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ExtractedTextKey is the derived key holding the plain text of an upload.
func ExtractedTextKey(storageKey string) string {
	return storageKey + extractedSuffix
}

// Sniff reads up to 512 bytes to detect the content type and returns a reader
// that replays them ahead of the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

// ReadAll opens storageKey and returns its contents.
func ReadAll(ctx context.Context, store ObjectStore, storageKey string) ([]byte, error) {
	rc, err := store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object key=%s: %w", storageKey, err)
	}
	return data, nil
}
