package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aria-chat/internal/chat"
)

// ErrTooLarge is returned when an attachment exceeds the upload limit.
var ErrTooLarge = errors.New("file is too large")

// ReadAttachment loads a file for upload, refusing directories and files
// larger than maxSize.
func ReadAttachment(path string, maxSize int64) (chat.Attachment, error) {
	path = expandPath(strings.TrimSpace(path))
	info, err := os.Stat(path)
	if err != nil {
		return chat.Attachment{}, fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if info.IsDir() {
		return chat.Attachment{}, fmt.Errorf("cannot attach %s: is a directory", path)
	}
	if info.Size() > maxSize {
		return chat.Attachment{}, fmt.Errorf("cannot attach %s (%d bytes): %w", path, info.Size(), ErrTooLarge)
	}

	f, err := os.Open(path)
	if err != nil {
		return chat.Attachment{}, fmt.Errorf("cannot attach %s: %w", path, err)
	}
	defer f.Close()

	// The file may have grown since Stat.
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return chat.Attachment{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if int64(len(data)) > maxSize {
		return chat.Attachment{}, fmt.Errorf("cannot attach %s: %w", path, ErrTooLarge)
	}

	return chat.Attachment{Name: filepath.Base(path), Data: data}, nil
}

// FindMatchingFiles searches workingDir for files whose name contains
// partial, returning at most limit relative paths. A directory prefix in
// partial ("docs/inv") narrows the search to that directory.
func FindMatchingFiles(workingDir string, partial string, limit int) []string {
	matches := []string{}

	searchDir := workingDir
	pattern := strings.ToLower(partial)

	if strings.Contains(partial, "/") {
		dir, file := filepath.Split(partial)
		searchDir = filepath.Join(workingDir, dir)
		pattern = strings.ToLower(file)
	}

	filepath.Walk(searchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if len(matches) >= limit {
			return filepath.SkipAll
		}

		relPath, err := filepath.Rel(workingDir, path)
		if err != nil || relPath == "." {
			return nil
		}

		// Skip hidden files and directories
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() {
			if pattern == "" || strings.Contains(strings.ToLower(info.Name()), pattern) {
				matches = append(matches, relPath)
			}
			return nil
		}

		// Limit depth to avoid scanning too deep
		if strings.Count(relPath, string(filepath.Separator)) >= 3 {
			return filepath.SkipDir
		}
		return nil
	})

	return matches
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
