package volume

import (
	"fmt"
	"io"
	"os"

	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/header"
	"Picocrypt-NG/internal/kdf"
)

// Decrypt is the main entry point for authenticating a volume header against
// a password. It returns the populated header on success; a false match
// (wrong password) is reported as an error distinguishable via
// errors.Is(err, volume.ErrPasswordIncorrect), not as a panic or a silent
// zero value.
func Decrypt(req *DecryptRequest) (*header.VolumeHeader, error) {
	ctx := NewDecryptContext(req)
	defer ctx.Close()

	blob, err := decryptLoadBlob(ctx, req)
	if err != nil {
		return nil, err
	}

	h, err := decryptSearch(ctx, req, blob)
	if err != nil {
		return nil, err
	}

	ctx.Header = nil // ownership transfers to the caller; Close must not zero it
	return h, nil
}

func decryptLoadBlob(ctx *OperationContext, req *DecryptRequest) ([]byte, error) {
	ctx.SetStatus("Reading volume header...")
	f, err := os.Open(req.InputFile)
	if err != nil {
		return nil, fmt.Errorf("open volume: %w", err)
	}
	defer f.Close()

	blob := make([]byte, 512)
	if _, err := io.ReadFull(f, blob); err != nil {
		return nil, fmt.Errorf("read volume header: %w", err)
	}
	return blob, nil
}

func decryptSearch(ctx *OperationContext, req *DecryptRequest, blob []byte) (*header.VolumeHeader, error) {
	kdfs := req.KDFs
	if kdfs == nil {
		kdfs = kdf.DefaultKDFs()
	}
	modes := req.Modes
	if modes == nil {
		modes = cipher.DefaultModes()
	}
	algorithms := req.Algorithms
	if algorithms == nil {
		algorithms = cipher.DefaultAlgorithms()
	}

	total := len(kdfs) * len(modes) * len(algorithms)
	ctx.SetProgress(0, total)
	ctx.SetStatus("Searching for the correct KDF, mode, and algorithm...")

	h := header.New(len(blob))
	ctx.Header = h

	ok, err := h.Decrypt(blob, []byte(req.Password), req.Pim, req.TrueCryptMode, kdfs, modes, algorithms)
	if err != nil {
		return nil, err
	}
	ctx.SetProgress(total, total)
	if !ok {
		return nil, ErrPasswordIncorrect
	}
	return h, nil
}
