// Package storage persists uploaded images and computes where they live.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrNotImage = errors.New("file is not an image")

// ImageStore saves and removes image objects addressed by key.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// RecipeImageKey returns {author_id}/recipe/{recipe_id}/{filename}. Keys use the
// recipe id so renaming a recipe never orphans its files.
func RecipeImageKey(authorID, recipeID uuid.UUID, filename string) string {
	return path.Join(authorID.String(), "recipe", recipeID.String(), SanitizeFilename(filename))
}

// ProfilePictureKey returns {user_id}/profile/{filename}.
func ProfilePictureKey(userID uuid.UUID, filename string) string {
	return path.Join(userID.String(), "profile", SanitizeFilename(filename))
}

// SanitizeFilename replaces every non-alphanumeric rune of the base name with an
// underscore, keeping a single extension dot.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = sanitizeSegment(base)
	if base == "" {
		base = "image"
	}
	if ext = sanitizeSegment(strings.TrimPrefix(ext, ".")); ext != "" {
		return base + "." + strings.ToLower(ext)
	}
	return base
}

func sanitizeSegment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}

// DetectImage sniffs data and returns its MIME type, or ErrNotImage.
func DetectImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}
	return mt.String(), nil
}
