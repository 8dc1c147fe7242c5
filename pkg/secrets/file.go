package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider loads secrets from individual files in a directory, the
// layout used by Docker and Kubernetes secret mounts.
//
// Files must be regular files with mode 0600 or 0400.
type FileProvider struct {
	BasePath string
}

// NewFileProvider creates a file provider rooted at basePath, which must be
// an existing directory.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", basePath)
	}
	return &FileProvider{BasePath: basePath}, nil
}

// GetSecret reads the file named after the secret. Surrounding whitespace,
// including the trailing newline most editors add, is trimmed.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	path, err := p.path(name)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w in %s: %s", ErrNotFound, p.BasePath, name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}
	if mode := info.Mode().Perm(); mode != 0o600 && mode != 0o400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 600 or 400)", path, mode)
	}

	// #nosec G304 - path is confined to BasePath above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}
	return value, nil
}

// Name returns "file".
func (p *FileProvider) Name() string {
	return "file"
}

// path joins name to BasePath and rejects names escaping it.
func (p *FileProvider) path(name string) (string, error) {
	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secrets directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(p.BasePath, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret name %q: directory traversal detected", name)
	}
	return absPath, nil
}
