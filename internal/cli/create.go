package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/kdf"
	"Picocrypt-NG/internal/volume"

	"github.com/spf13/cobra"
)

func init() {
	createCmd.SilenceErrors = true
	createCmd.SilenceUsage = true
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a fresh volume header under a password",
	Long: `Create a new TrueCrypt/VeraCrypt-compatible volume header: a random
salt and data-area key, wrapped under a password-derived header key, and
written to a file.

If no password is provided, you will be prompted to enter one interactively
(with confirmation).

Examples:
  # Create a header for a 1 GiB volume (defaults: SHA-512, XTS, AES)
  volheader create -o header.bin --size 1073741824

  # Create a hidden-volume header
  volheader create -o hidden.bin --size 1073741824 --hidden-size 536870912

  # Choose the KDF/algorithm explicitly (new volumes are always bound to XTS)
  volheader create -o header.bin --size 1073741824 --kdf Whirlpool --algorithm Serpent`,
	RunE: runCreate,
}

var (
	createOutput      string
	createPassword    string
	createPasswordStd bool
	createPim         int
	createTrueCrypt   bool
	createSize        uint64
	createHiddenSize  uint64
	createSectorSize  uint32
	createKDF         string
	createAlgorithm   string
	createQuiet       bool
	createYes         bool
)

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "Output path for the generated header")
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "Header password")
	createCmd.Flags().BoolVarP(&createPasswordStd, "password-stdin", "P", false, "Read password from stdin")
	createCmd.Flags().IntVar(&createPim, "pim", 0, "Personal Iterations Multiplier (0 uses the KDF's default)")
	createCmd.Flags().BoolVar(&createTrueCrypt, "truecrypt", false, "Write the legacy TrueCrypt magic instead of VeraCrypt's")

	createCmd.Flags().Uint64Var(&createSize, "size", 0, "Volume data size in bytes")
	createCmd.Flags().Uint64Var(&createHiddenSize, "hidden-size", 0, "Hidden volume data size in bytes (0 for a normal volume)")
	createCmd.Flags().Uint32Var(&createSectorSize, "sector-size", 512, "Sector size in bytes (multiple of 512)")

	createCmd.Flags().StringVar(&createKDF, "kdf", "SHA-512", "KDF to wrap the header under")
	createCmd.Flags().StringVar(&createAlgorithm, "algorithm", "AES", "Encryption algorithm for the volume's data area (always bound to XTS)")

	createCmd.Flags().BoolVarP(&createQuiet, "quiet", "q", false, "Suppress progress output")
	createCmd.Flags().BoolVarP(&createYes, "yes", "y", false, "Overwrite output file without prompting")

	_ = createCmd.MarkFlagRequired("output")
	_ = createCmd.MarkFlagRequired("size")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if createOutput == "" {
		return fmt.Errorf("output path is required (-o)")
	}
	if createSize == 0 {
		return fmt.Errorf("--size is required")
	}

	if _, err := os.Stat(createOutput); err == nil && !createYes {
		fmt.Fprintf(os.Stderr, "Output file %s already exists. Overwrite? [y/N]: ", createOutput)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			return fmt.Errorf("operation cancelled")
		}
	}

	password := createPassword
	var err error
	if createPasswordStd {
		password, err = ReadPasswordFromStdin()
		if err != nil {
			return err
		}
	} else if password == "" {
		password, err = ReadPasswordInteractive(true)
		if err != nil {
			return fmt.Errorf("password input: %w", err)
		}
	}

	pkcs5, err := resolveSingleKDF(createKDF)
	if err != nil {
		return err
	}
	ea, err := resolveSingleAlgorithm(createAlgorithm)
	if err != nil {
		return err
	}

	reporter := NewReporter(createQuiet)
	globalReporter = reporter

	req := &volume.EncryptRequest{
		OutputFile:           createOutput,
		Password:             password,
		Pim:                  createPim,
		TrueCryptMode:        createTrueCrypt,
		KDF:                  pkcs5,
		Algorithm:            ea,
		VolumeDataSize:       createSize,
		HiddenVolumeDataSize: createHiddenSize,
		EncryptedAreaStart:   1024,
		EncryptedAreaLength:  createSize,
		SectorSize:           createSectorSize,
		Reporter:             reporter,
	}

	if !createQuiet {
		fmt.Fprintf(os.Stderr, "Creating header: %s/XTS/%s -> %s\n", pkcs5.Name(), ea.Name(), createOutput)
	}

	err = volume.Encrypt(req)
	reporter.Finish()
	if err != nil {
		reporter.PrintError("%v", err)
		_ = os.Remove(createOutput)
		return err
	}

	reporter.PrintSuccess("Header written: %s", createOutput)
	return nil
}

func resolveSingleKDF(name string) (kdf.Pkcs5Kdf, error) {
	for _, k := range kdf.DefaultKDFs() {
		if strings.EqualFold(k.Name(), name) {
			return k, nil
		}
	}
	return nil, fmt.Errorf("unknown KDF %q", name)
}

func resolveSingleAlgorithm(name string) (cipher.Algorithm, error) {
	for _, a := range cipher.DefaultAlgorithms() {
		if strings.EqualFold(a.Name(), name) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("unknown algorithm %q", name)
}
