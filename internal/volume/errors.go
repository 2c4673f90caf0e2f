package volume

import "errors"

// ErrPasswordIncorrect is returned by Decrypt when the trial-decryption
// search exhausts its entire (KDF, mode, algorithm) catalog without finding
// a combination that authenticates the password against the header.
var ErrPasswordIncorrect = errors.New("volume: password incorrect or header corrupted")
