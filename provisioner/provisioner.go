package provisioner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/ruteri/dev-cert-provisioner/cryptoutils"
)

const (
	// KeyFileName is the private key output file.
	KeyFileName = "key.pem"

	// CertFileName is the certificate output file.
	CertFileName = "cert.pem"

	// FingerprintFileName holds the certificate's SHA-256 fingerprint
	// as raw uppercase hex with no trailing newline.
	FingerprintFileName = "cert.sha256"

	// DefaultCommonName is the subject CN used when none is configured.
	DefaultCommonName = "localhost"

	// DefaultValidity is the certificate lifetime used when none is
	// configured. Two weeks is the longest validity browsers accept
	// for WebTransport certificate pinning.
	DefaultValidity = 14 * 24 * time.Hour
)

// Config configures a Provisioner.
type Config struct {
	// OutputDir is where key.pem, cert.pem and cert.sha256 are
	// written. When empty it defaults to the directory containing the
	// running executable, so output lands beside the invoking binary.
	OutputDir string

	// CommonName is the certificate subject CN. Defaults to DefaultCommonName.
	CommonName string

	// Validity is the certificate lifetime. Defaults to DefaultValidity.
	Validity time.Duration

	// Stdout receives the two status lines. Defaults to os.Stdout.
	Stdout io.Writer

	// Log receives operational logging. Defaults to slog.Default().
	Log *slog.Logger
}

// Result describes the artifacts of a successful provisioning run.
type Result struct {
	KeyPath         string
	CertPath        string
	FingerprintPath string

	// Fingerprint is the certificate's SHA-256 digest, uppercase hex
	// with no separators, identical to the cert.sha256 content.
	Fingerprint string
}

// Provisioner writes a short-lived self-signed certificate, its
// private key, and the certificate's SHA-256 fingerprint to an output
// directory. Every run fully overwrites all three files.
type Provisioner struct {
	outputDir  string
	commonName string
	validity   time.Duration
	stdout     io.Writer
	log        *slog.Logger
}

// New creates a Provisioner from the given config, applying defaults
// for unset fields. An empty OutputDir resolves to the executable's
// directory; resolution failure is returned here rather than at
// Provision time.
func New(cfg Config) (*Provisioner, error) {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		execPath, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default output directory: %w", err)
		}
		outputDir = filepath.Dir(execPath)
	}

	commonName := cfg.CommonName
	if commonName == "" {
		commonName = DefaultCommonName
	}

	validity := cfg.Validity
	if validity == 0 {
		validity = DefaultValidity
	}
	if validity < 0 {
		return nil, errors.New("validity must be positive")
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	return &Provisioner{
		outputDir:  outputDir,
		commonName: commonName,
		validity:   validity,
		stdout:     stdout,
		log:        log,
	}, nil
}

// Provision generates the key pair and self-signed certificate, writes
// key.pem and cert.pem, prints the confirmation line, then computes the
// certificate fingerprint, prints it with the Digest label, and
// persists it to cert.sha256 without a trailing newline.
//
// The sequence is fail-fast with no retries; any error aborts the run
// and is returned to the caller. Pre-existing output files are silently
// overwritten. Each file write goes through a temp-file-and-rename so a
// failed run never leaves a truncated artifact behind.
func (p *Provisioner) Provision() (*Result, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	key, cert, err := cryptoutils.GenerateSelfSigned(p.commonName, p.validity)
	if err != nil {
		return nil, err
	}

	keyPath := filepath.Join(p.outputDir, KeyFileName)
	if err := renameio.WriteFile(keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", KeyFileName, err)
	}

	certPath := filepath.Join(p.outputDir, CertFileName)
	if err := renameio.WriteFile(certPath, cert, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", CertFileName, err)
	}

	fmt.Fprintln(p.stdout, "Successfully generated certificate files")

	// Fingerprint the file we just wrote rather than the in-memory
	// copy, so the persisted digest is provably derived from cert.pem.
	writtenCert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read back %s: %w", CertFileName, err)
	}

	fingerprint, err := cryptoutils.Fingerprint(writtenCert)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.stdout, "Digest: %s\n", fingerprint)

	fingerprintPath := filepath.Join(p.outputDir, FingerprintFileName)
	if err := renameio.WriteFile(fingerprintPath, []byte(fingerprint), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", FingerprintFileName, err)
	}

	p.log.Debug("Provisioned development certificate",
		slog.String("dir", p.outputDir),
		slog.String("cn", p.commonName),
		slog.Duration("validity", p.validity),
		slog.String("fingerprint", fingerprint))

	return &Result{
		KeyPath:         keyPath,
		CertPath:        certPath,
		FingerprintPath: fingerprintPath,
		Fingerprint:     fingerprint,
	}, nil
}
