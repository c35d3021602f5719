package pkg

import (
	"errors"
	"fmt"

	archerrors "github.com/archup/archup/internal/errors"
)

// Sentinel errors for package operations, matchable with errors.Is.
var (
	// ErrPackageNotFound indicates the package does not exist in any source.
	ErrPackageNotFound = &PackageError{
		code:    archerrors.NotFound,
		message: "package not found",
	}

	// ErrPackageNotInstalled indicates the package is not on the system.
	ErrPackageNotInstalled = &PackageError{
		code:    archerrors.NotFound,
		message: "package not installed",
	}

	// ErrInstallFailed indicates the backend reported an install failure.
	ErrInstallFailed = &PackageError{
		code:    archerrors.PackageManager,
		message: "package installation failed",
	}

	// ErrRemoveFailed indicates the backend reported a removal failure.
	ErrRemoveFailed = &PackageError{
		code:    archerrors.PackageManager,
		message: "package removal failed",
	}

	// ErrSyncFailed indicates the package database could not be synchronized.
	ErrSyncFailed = &PackageError{
		code:    archerrors.PackageManager,
		message: "package database sync failed",
	}

	// ErrDatabaseLocked indicates another package manager holds the lock.
	ErrDatabaseLocked = &PackageError{
		code:    archerrors.PackageManager,
		message: "package database is locked",
	}

	// ErrNetworkUnavailable indicates a download or mirror failure.
	ErrNetworkUnavailable = &PackageError{
		code:    archerrors.Network,
		message: "network unavailable",
	}

	// ErrBackendUnavailable indicates the backend binary is not installed.
	ErrBackendUnavailable = &PackageError{
		code:    archerrors.Unsupported,
		message: "package backend unavailable",
	}
)

// PackageError carries the failing package and underlying cause alongside
// the archup error code.
type PackageError struct {
	code        archerrors.Code
	message     string
	packageName string
	cause       error
}

// Error implements the error interface.
func (e *PackageError) Error() string {
	result := e.message
	if e.packageName != "" {
		result += fmt.Sprintf(" [%s]", e.packageName)
	}
	if e.cause != nil {
		result += ": " + e.cause.Error()
	}
	return result
}

// Unwrap returns the underlying cause.
func (e *PackageError) Unwrap() error {
	return e.cause
}

// Is matches two PackageErrors by sentinel message.
func (e *PackageError) Is(target error) bool {
	var t *PackageError
	if errors.As(target, &t) {
		return e.message == t.message
	}
	return false
}

// Code returns the archup error code for this error.
func (e *PackageError) Code() archerrors.Code {
	return e.code
}

// PackageName returns the package this error is about, if known.
func (e *PackageError) PackageName() string {
	return e.packageName
}

// Wrap attaches a cause to a sentinel.
func Wrap(sentinel *PackageError, cause error) *PackageError {
	return &PackageError{
		code:    sentinel.code,
		message: sentinel.message,
		cause:   cause,
	}
}

// WrapWithPackage attaches a cause and the failing package to a sentinel.
func WrapWithPackage(sentinel *PackageError, pkgName string, cause error) *PackageError {
	return &PackageError{
		code:        sentinel.code,
		message:     sentinel.message,
		packageName: pkgName,
		cause:       cause,
	}
}
