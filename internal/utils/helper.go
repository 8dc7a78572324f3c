package utils

import (
	"log/slog"
	"os"
	"regexp"
)

var (
	// ?key=VALUE, &api_key=VALUE, apiKey=VALUE
	keyPattern    = regexp.MustCompile(`([?&])(api[_\-]?[kK]ey|key)=([^&\s"]+)`)
	bearerPattern = regexp.MustCompile(`Bearer\s+([A-Za-z0-9_\-\.]+)`)
	// service account JSON fields that leak into decode errors
	credentialFieldPattern = regexp.MustCompile(`"(private_key|private_key_id|client_secret|refresh_token)"\s*:\s*"(?:[^"\\]|\\.)*"`)
	pemPattern             = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`)
)

// MaskSensitiveData masks API keys and Google credentials in strings
// so error messages and URLs can be logged.
func MaskSensitiveData(s string) string {
	if s == "" {
		return s
	}

	s = keyPattern.ReplaceAllString(s, `${1}${2}=***MASKED***`)
	s = bearerPattern.ReplaceAllString(s, `Bearer ***MASKED***`)
	s = credentialFieldPattern.ReplaceAllString(s, `"${1}": "***MASKED***"`)
	s = pemPattern.ReplaceAllString(s, `***MASKED***`)

	return s
}

// MaskSensitiveError wraps an error and masks sensitive data when the error is converted to string
func MaskSensitiveError(err error) error {
	if err == nil {
		return nil
	}
	return &maskedError{err: err}
}

type maskedError struct {
	err error
}

func (e *maskedError) Error() string {
	return MaskSensitiveData(e.err.Error())
}

func (e *maskedError) Unwrap() error {
	return e.err
}

func ExitOnError(msg string, err error) {
	slog.Error(msg, "err", MaskSensitiveError(err))
	os.Exit(1)
}
