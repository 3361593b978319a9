// Package extract turns uploaded resume files into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"jobprep-backend/internal/shared/storage/object"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var (
	// ErrUnsupported is returned for file types that cannot be turned into text.
	ErrUnsupported = errors.New("unsupported file type")

	// ErrEmptyText is returned when a file yields no readable text.
	ErrEmptyText = errors.New("no text found in file")

	// ErrUnreadable is returned when a supported file cannot be decoded.
	ErrUnreadable = errors.New("file could not be read")
)

// Supported reports whether a file with this mime type and name can be extracted.
func Supported(mimeType, fileName string, data []byte) bool {
	switch normalizeMimeType(mimeType, fileName, data) {
	case MimePDF, MimeDOCX, MimeText:
		return true
	default:
		return false
	}
}

// ExtractText pulls text from a stored object and persists a derived copy
// under object.ExtractedTextKey. It returns the text and the derived key.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	raw, err := object.ReadAll(ctx, store, fileKey)
	if err != nil {
		return "", "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := object.ExtractedTextKey(fileKey)
	if _, err := store.SaveWithKey(ctx, extractedKey, object.TextContentType, strings.NewReader(text)); err != nil {
		return "", "", fmt.Errorf("extract text key=%s: save: %w", fileKey, err)
	}
	return text, extractedKey, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeText:
		text, err = extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, normalized)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid utf-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func extractPDF(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	// Row-based extraction keeps line breaks, which the section parser relies on.
	var buf strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			buf.WriteString(strings.TrimSpace(line.String()))
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

// stripDocxXML keeps run text and turns paragraphs, breaks and tabs into whitespace.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteByte('\t')
			case "br":
				buf.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch clean {
	case "application/zip", "application/octet-stream", "":
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
		switch ext {
		case ".pdf":
			if bytes.HasPrefix(data, []byte("%PDF-")) {
				return MimePDF
			}
		case ".txt", ".md", ".text":
			return MimeText
		}
		return clean
	case "text/markdown":
		return MimeText
	}
	return clean
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
