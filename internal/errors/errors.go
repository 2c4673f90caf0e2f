// Package errors provides typed errors for the volume header codec and trial
// decryption engine. This enables callers to use errors.Is() and errors.As()
// for specific error handling, the same way the rest of this codebase does.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the header/decrypt error taxonomy.
// Use errors.Is(err, errors.ErrHigherVersionRequired) to check for a specific
// member of the taxonomy; a bare false return from Decrypt or Deserialize is
// NOT one of these — it means "keep searching", not "something is wrong".
var (
	// ErrParameterIncorrect signals a precondition violation on sizes or
	// invariants: wrong key-size ratio, bad buffer sizing, SectorSize outside
	// [512, 4096] or not a multiple of 512.
	ErrParameterIncorrect = errors.New("parameter incorrect")

	// ErrPasswordEmpty signals a zero-length password passed to Decrypt.
	ErrPasswordEmpty = errors.New("password empty")

	// ErrHigherVersionRequired signals a well-formed header declaring a
	// format version this build cannot interpret.
	ErrHigherVersionRequired = errors.New("higher version required")

	// ErrUnsupportedTrueCryptFormat signals TrueCrypt-compat mode with a
	// RequiredMinProgramVersion outside the accepted TrueCrypt range.
	ErrUnsupportedTrueCryptFormat = errors.New("unsupported truecrypt format")

	// ErrUnsupportedSectorSize signals a platform-gated rejection of a
	// non-512 sector size on a build that lacks large-sector support.
	ErrUnsupportedSectorSize = errors.New("unsupported sector size")

	// ErrOutOfRange signals an internal bounds violation in buffer slicing.
	// Seeing this indicates a bug in the caller, not bad on-disk data.
	ErrOutOfRange = errors.New("out of range")

	// ErrCancelled and ErrFileNotFound are general-purpose sentinels outside
	// the header taxonomy; no package in this module currently returns them.
	ErrCancelled   = errors.New("operation cancelled")
	ErrFileNotFound = errors.New("file not found")
)

// CryptoError represents an error during cryptographic operations (KDF or
// cipher primitives). It wraps the underlying error with operation context.
type CryptoError struct {
	Op  string // Operation name: "rand", "xts", "legacycbc", "legacycbc-aux", or a KDF name
	Err error
}

func (e *CryptoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("crypto %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("crypto %s failed", e.Op)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// FileError represents an error during file operations.
type FileError struct {
	Op   string // Operation: "open", "read", "write", "stat"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Op, e.Path)
}

func (e *FileError) Unwrap() error { return e.Err }

// NewFileError creates a new FileError.
func NewFileError(op, path string, err error) *FileError {
	return &FileError{Op: op, Path: path, Err: err}
}

// ParamError represents an ErrParameterIncorrect occurrence with the field
// that failed and why.
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter incorrect: %s: %s", e.Field, e.Message)
}

func (e *ParamError) Unwrap() error { return ErrParameterIncorrect }

// NewParamError creates a new ParamError.
func NewParamError(field, message string) *ParamError {
	return &ParamError{Field: field, Message: message}
}

// RangeError represents an ErrOutOfRange occurrence, naming the offending
// slice bounds. Seeing this indicates a bug, not corrupt on-disk data.
type RangeError struct {
	Context string
	Offset  int
	Length  int
	BufSize int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("out of range: %s (offset=%d length=%d bufSize=%d)", e.Context, e.Offset, e.Length, e.BufSize)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// NewOutOfRange creates a new RangeError.
func NewOutOfRange(context string, offset, length, bufSize int) *RangeError {
	return &RangeError{Context: context, Offset: offset, Length: length, BufSize: bufSize}
}

// VersionError represents an ErrHigherVersionRequired occurrence.
type VersionError struct {
	Found   uint16
	Highest uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("higher version required: header declares %#04x, this build supports up to %#04x", e.Found, e.Highest)
}

func (e *VersionError) Unwrap() error { return ErrHigherVersionRequired }

// NewVersionError creates a new VersionError.
func NewVersionError(found, highest uint16) *VersionError {
	return &VersionError{Found: found, Highest: highest}
}

// TrueCryptFormatError represents an ErrUnsupportedTrueCryptFormat occurrence.
type TrueCryptFormatError struct {
	RequiredMinProgramVersion uint16
}

func (e *TrueCryptFormatError) Error() string {
	return fmt.Sprintf("unsupported truecrypt format: RequiredMinProgramVersion=%#04x outside accepted range", e.RequiredMinProgramVersion)
}

func (e *TrueCryptFormatError) Unwrap() error { return ErrUnsupportedTrueCryptFormat }

// NewTrueCryptFormatError creates a new TrueCryptFormatError.
func NewTrueCryptFormatError(requiredMinProgramVersion uint16) *TrueCryptFormatError {
	return &TrueCryptFormatError{RequiredMinProgramVersion: requiredMinProgramVersion}
}

// Is checks if target matches any of our sentinel errors.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCancelled checks if the error indicates a cancelled operation.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }
