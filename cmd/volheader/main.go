// volheader reads, authenticates, and creates TrueCrypt/VeraCrypt-compatible
// volume headers.
//
// Released under GPL-3.0-only
package main

import "Picocrypt-NG/internal/cli"

const version = "v0.1"

func main() {
	cli.Execute(version)
}
