package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"hydraapi/internal/hydra"
)

// ErrWordlistPath is returned for wordlist names that are absolute or point
// outside the wordlist directory.
var ErrWordlistPath = errors.New("wordlist must name a file inside the wordlist directory")

// resolveWordlists rewrites the file fields of req to real paths under dir.
// Literal logins and passwords pass through untouched.
func resolveWordlists(dir string, req hydra.Request) (hydra.Request, error) {
	for _, field := range []*string{&req.LoginFile, &req.PasswordFile, &req.ComboFile} {
		if *field == "" {
			continue
		}
		path, err := resolveWordlist(dir, *field)
		if err != nil {
			return req, err
		}
		*field = path
	}
	return req, nil
}

func resolveWordlist(dir, name string) (string, error) {
	if dir == "" || !filepath.IsLocal(name) {
		return "", ErrWordlistPath
	}
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("wordlist directory: %w", err)
	}
	path, err := filepath.EvalSymlinks(filepath.Join(root, name))
	if err != nil {
		return "", fmt.Errorf("%w: %s", hydra.ErrWordlistNotFound, name)
	}
	// symlinks inside the directory may still point out of it
	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return "", ErrWordlistPath
	}
	return path, nil
}
