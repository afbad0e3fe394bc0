package gridstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports a workbook or sheet id that does not exist or is not
// accessible.
var ErrNotFound = errors.New("workbook not found")

// AuthError reports bad or malformed credentials, or insufficient API scope.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// PermissionError reports a folder that is not shared with the service
// identity.
type PermissionError struct {
	FolderID string
	Err      error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("folder %s not accessible: %v", e.FolderID, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// TransientError marks a remote failure worth retrying.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient store error: " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ClassifyListError maps a raw backend error from a folder listing to the
// store taxonomy. Permission problems are detected heuristically from an
// embedded HTTP status; everything else is considered transient.
func ClassifyListError(folderID string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "403") {
		return &PermissionError{FolderID: folderID, Err: err}
	}
	return &TransientError{Err: err}
}
