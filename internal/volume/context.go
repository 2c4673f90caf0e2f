// Package volume provides high-level operations for locating, authenticating,
// and creating VeraCrypt/TrueCrypt-compatible volume headers.
//
// This is AUDIT-CRITICAL code - changes here directly affect the
// trial-decryption search and header format compatibility.
//
// Decrypt pipeline:
//  1. Load: read the HeaderSize-byte blob from the volume file
//  2. Search: run the (KDF x mode x algorithm) trial-decryption engine
//  3. Finalize: report the authenticated header, or a clean failure
//
// Create pipeline:
//  1. Generate: build a fresh header with random salt and DataAreaKey
//  2. Wrap: derive a header-wrapping key from the password and encrypt
//  3. Finalize: write the resulting blob to the volume file
//
// ⚠️ SECURITY: Always call OperationContext.Close() when done to zero key material.
package volume

import (
	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/header"
	"Picocrypt-NG/internal/kdf"
)

// ProgressReporter provides callbacks for UI updates during a trial-decryption
// search. Implementations must be thread-safe as methods may be called from
// goroutines.
type ProgressReporter interface {
	SetStatus(text string)       // Update status message (e.g., "Trying AES/XTS...")
	SetProgress(done, total int) // Update progress counters over the search space
	IsCancelled() bool           // Check if the user requested cancellation
}



// DecryptRequest contains all parameters needed to authenticate a volume
// header against a password.
type DecryptRequest struct {
	InputFile     string // Path to the volume (or a detached header file)
	Password      string // User password
	Pim           int    // Personal Iterations Multiplier; 0 uses each KDF's default
	TrueCryptMode bool   // Require the legacy TrueCrypt magic/version floor

	// KDFs, Modes, and Algorithms name the search catalog, in the order the
	// engine iterates them. Nil selects this build's full default catalog
	// (internal/kdf.DefaultKDFs, internal/cipher.DefaultModes/DefaultAlgorithms).
	KDFs       []kdf.Pkcs5Kdf
	Modes      []cipher.Mode
	Algorithms []cipher.Algorithm

	Reporter ProgressReporter // UI callback (may be nil for headless operation)
}

// EncryptRequest contains all parameters needed to create a fresh volume
// header and write it to a file.
type EncryptRequest struct {
	OutputFile    string // Destination path for the volume header
	Password      string // User password
	Pim           int    // Personal Iterations Multiplier
	TrueCryptMode bool   // Write the legacy TrueCrypt magic instead of VeraCrypt's

	KDF       kdf.Pkcs5Kdf     // KDF this header is wrapped under
	Algorithm cipher.Algorithm // Encryption algorithm for the volume's data area; always bound to XTS

	VolumeDataSize       uint64
	HiddenVolumeDataSize uint64 // Nonzero marks this a hidden-volume header
	EncryptedAreaStart   uint64
	EncryptedAreaLength  uint64
	SectorSize           uint32
	Flags                uint32

	Reporter ProgressReporter // UI callback (may be nil)
}

// OperationContext holds mutable state during a decrypt or create operation.
type OperationContext struct {
	InputFile  string
	OutputFile string

	Header *header.VolumeHeader

	Reporter ProgressReporter
}

// NewDecryptContext creates a context for a decrypt (trial-authentication) operation.
func NewDecryptContext(req *DecryptRequest) *OperationContext {
	return &OperationContext{InputFile: req.InputFile, Reporter: req.Reporter}
}

// NewEncryptContext creates a context for a create (header-generation) operation.
func NewEncryptContext(req *EncryptRequest) *OperationContext {
	return &OperationContext{OutputFile: req.OutputFile, Reporter: req.Reporter}
}

// SetStatus updates the status reporter if available.
func (ctx *OperationContext) SetStatus(status string) {
	if ctx.Reporter != nil {
		ctx.Reporter.SetStatus(status)
	}
}

// SetProgress updates the progress reporter if available.
func (ctx *OperationContext) SetProgress(done, total int) {
	if ctx.Reporter != nil {
		ctx.Reporter.SetProgress(done, total)
	}
}

// IsCancelled checks if the operation has been cancelled.
func (ctx *OperationContext) IsCancelled() bool {
	if ctx.Reporter != nil {
		return ctx.Reporter.IsCancelled()
	}
	return false
}

// Close securely zeros the header's key material. Always call via defer
// immediately after creating the context.
func (ctx *OperationContext) Close() {
	if ctx == nil {
		return
	}
	if ctx.Header != nil {
		ctx.Header.Close()
		ctx.Header = nil
	}
}
