package utils

import (
	"mime"
	"os"
	"regexp"
	"strings"
)

// visibleSecretChars is the number of leading and trailing characters kept by MaskSecret.
const visibleSecretChars = 4

// textContentTypePatterns is a slice of regular expressions that match content types
// considered to be text-based. This includes "text/*", "application/json" and
// "application/problem+json".
//
//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile("^application/json$"),
	regexp.MustCompile(`^application/[a-z0-9.\-]+\+json$`),
}

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// IsTextContentType checks if the given content type represents a text-based format.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// MaskSecret hides the middle of a credential so it can be printed.
// Short values are fully masked.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) <= visibleSecretChars*2 {
		return strings.Repeat("*", len(secret))
	}

	return secret[:visibleSecretChars] + "..." + secret[len(secret)-visibleSecretChars:]
}
