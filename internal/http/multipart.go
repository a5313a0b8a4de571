package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// MultipartFile describes a file part of an upload.
type MultipartFile struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// BuildMultipart reads the file into memory and renders a multipart/form-data body.
// The body is kept as bytes so every retry can resend it.
func BuildMultipart(file MultipartFile, fields map[string]string) ([]byte, string, error) {
	content, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", file.FileName, err)
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		err = writer.WriteField(name, fields[name])
		if err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		file.FieldName, filepath.Base(file.FileName)))
	header.Set("Content-Type", DetectContentType(file.FileName, content))

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	_, err = part.Write(content)
	if err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// DetectContentType sniffs content, falling back to the file extension for
// formats such as SVG that are text on the wire.
func DetectContentType(fileName string, content []byte) string {
	detected := mimetype.Detect(content)

	if detected.Is("text/plain") || detected.Is("application/octet-stream") {
		byExtension := mimetype.Lookup(extensionMIME(fileName))
		if byExtension != nil {
			return byExtension.String()
		}
	}

	return detected.String()
}

func extensionMIME(fileName string) string {
	switch filepath.Ext(fileName) {
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".zip":
		return "application/zip"
	default:
		return ""
	}
}
