package cli

import (
	"fmt"
	"os"
	"strings"

	"Picocrypt-NG/internal/cipher"
	"Picocrypt-NG/internal/kdf"
	"Picocrypt-NG/internal/volume"

	"github.com/spf13/cobra"
)

func init() {
	decryptCmd.SilenceErrors = true
	decryptCmd.SilenceUsage = true
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Authenticate a password against an encrypted volume header",
	Long: `Run the trial-decryption search over (KDF x mode x algorithm) against
a volume's 512-byte header and report the combination that authenticates
the password, if any.

Examples:
  # Search the full default catalog
  volheader decrypt -i volume.img -p "mypassword"

  # Restrict the search (faster, if you already know the format)
  volheader decrypt -i volume.img -p "mypassword" --kdf SHA-512 --mode XTS

  # TrueCrypt-format volume (magic "TRUE" instead of "VERA")
  volheader decrypt -i volume.tc -p "mypassword" --truecrypt

  # Read password from stdin (for scripts)
  echo "mypassword" | volheader decrypt -i volume.img -P`,
	RunE: runDecrypt,
}

var (
	decInput         string
	decPassword      string
	decPasswordStdin bool
	decPim           int
	decTrueCrypt     bool
	decKDFs          []string
	decModes         []string
	decAlgorithms    []string
	decQuiet         bool
)

func init() {
	rootCmd.AddCommand(decryptCmd)

	decryptCmd.Flags().StringVarP(&decInput, "input", "i", "", "Volume (or detached header) file to read")
	decryptCmd.Flags().StringVarP(&decPassword, "password", "p", "", "Password to try")
	decryptCmd.Flags().BoolVarP(&decPasswordStdin, "password-stdin", "P", false, "Read password from stdin")
	decryptCmd.Flags().IntVar(&decPim, "pim", 0, "Personal Iterations Multiplier (0 uses each KDF's default)")
	decryptCmd.Flags().BoolVar(&decTrueCrypt, "truecrypt", false, "Require the legacy TrueCrypt magic/version floor")
	decryptCmd.Flags().StringArrayVar(&decKDFs, "kdf", nil, "Restrict the search to these KDF names (repeatable)")
	decryptCmd.Flags().StringArrayVar(&decModes, "mode", nil, "Restrict the search to these mode names: XTS, LegacyCbc (repeatable)")
	decryptCmd.Flags().StringArrayVar(&decAlgorithms, "algorithm", nil, "Restrict the search to these algorithm names (repeatable)")
	decryptCmd.Flags().BoolVarP(&decQuiet, "quiet", "q", false, "Suppress progress output")

	_ = decryptCmd.MarkFlagRequired("input")
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	if decInput == "" {
		return fmt.Errorf("input file is required (-i)")
	}
	info, err := os.Stat(decInput)
	if err != nil {
		return fmt.Errorf("input file not found: %s", decInput)
	}
	if info.IsDir() {
		return fmt.Errorf("input must be a file, not a directory: %s", decInput)
	}

	password := decPassword
	if decPasswordStdin {
		password, err = ReadPasswordFromStdin()
		if err != nil {
			return err
		}
	} else if password == "" {
		password, err = ReadPasswordInteractive(false)
		if err != nil {
			return fmt.Errorf("password input: %w", err)
		}
	}

	kdfs, err := resolveKDFs(decKDFs)
	if err != nil {
		return err
	}
	modes, err := resolveModes(decModes)
	if err != nil {
		return err
	}
	algorithms, err := resolveAlgorithms(decAlgorithms)
	if err != nil {
		return err
	}

	reporter := NewReporter(decQuiet)
	globalReporter = reporter

	req := &volume.DecryptRequest{
		InputFile:     decInput,
		Password:      password,
		Pim:           decPim,
		TrueCryptMode: decTrueCrypt,
		KDFs:          kdfs,
		Modes:         modes,
		Algorithms:    algorithms,
		Reporter:      reporter,
	}

	if !decQuiet {
		fmt.Fprintf(os.Stderr, "Searching %s\n", decInput)
	}

	h, err := volume.Decrypt(req)
	reporter.Finish()
	if err != nil {
		reporter.PrintError("%v", err)
		return err
	}

	reporter.PrintSuccess("Password authenticated")
	fmt.Printf("Volume type:          %s\n", h.VolumeType)
	fmt.Printf("Header version:       %d\n", h.HeaderVersion)
	fmt.Printf("Volume data size:     %d bytes\n", h.VolumeDataSize)
	fmt.Printf("Encrypted area start: %d\n", h.EncryptedAreaStart)
	fmt.Printf("Encrypted area size:  %d bytes\n", h.EncryptedAreaLength)
	fmt.Printf("Sector size:          %d bytes\n", h.SectorSize)
	fmt.Printf("Algorithm:            %s\n", h.EA.Name())
	fmt.Printf("Mode:                 %s\n", h.Mode.Kind())
	return nil
}

func resolveKDFs(names []string) ([]kdf.Pkcs5Kdf, error) {
	if len(names) == 0 {
		return nil, nil
	}
	all := kdf.DefaultKDFs()
	var out []kdf.Pkcs5Kdf
	for _, name := range names {
		found := false
		for _, k := range all {
			if strings.EqualFold(k.Name(), name) {
				out = append(out, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown KDF %q", name)
		}
	}
	return out, nil
}

func resolveModes(names []string) ([]cipher.Mode, error) {
	if len(names) == 0 {
		return nil, nil
	}
	all := cipher.DefaultModes()
	var out []cipher.Mode
	for _, name := range names {
		found := false
		for _, m := range all {
			if strings.EqualFold(m.Kind().String(), name) {
				out = append(out, m)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown mode %q", name)
		}
	}
	return out, nil
}

func resolveAlgorithms(names []string) ([]cipher.Algorithm, error) {
	if len(names) == 0 {
		return nil, nil
	}
	all := cipher.DefaultAlgorithms()
	var out []cipher.Algorithm
	for _, name := range names {
		found := false
		for _, a := range all {
			if strings.EqualFold(a.Name(), name) {
				out = append(out, a)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown algorithm %q", name)
		}
	}
	return out, nil
}
