// Package ingest turns a heterogeneous file selection into a flat list of
// supported documents. Zip archives are flattened one level; anything
// outside the allow-list is silently dropped.
package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var supportedExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx"}

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Document is one supported source file, fully read into memory.
type Document struct {
	Name string
	Data []byte
}

func (d Document) Extension() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

func (d Document) MIMEType() string {
	if m, ok := mimeTypes[d.Extension()]; ok {
		return m
	}
	return "application/octet-stream"
}

// Supported reports whether the file name carries an allow-listed extension.
func Supported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Expand reads the given paths into documents. Zip archives contribute
// their supported entries; supported plain files are taken as-is; unsupported
// files are skipped without an error. An unreadable path is an error.
func Expand(paths []string) ([]Document, error) {
	var docs []Document

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if strings.HasSuffix(strings.ToLower(path), ".zip") {
			entries, err := expandArchive(data)
			if err != nil {
				return nil, fmt.Errorf("opening archive %s: %w", path, err)
			}
			docs = append(docs, entries...)
			continue
		}

		if Supported(path) {
			docs = append(docs, Document{Name: filepath.Base(path), Data: data})
		}
	}

	return docs, nil
}

func expandArchive(data []byte) ([]Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !Supported(entry.Name) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading archive entry %s: %w", entry.Name, err)
		}

		docs = append(docs, Document{Name: entry.Name, Data: content})
	}

	return docs, nil
}
