package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ruteri/dev-cert-provisioner/cmd/flags"
	"github.com/ruteri/dev-cert-provisioner/cryptoutils"
	"github.com/ruteri/dev-cert-provisioner/httpserver"
	"github.com/ruteri/dev-cert-provisioner/provisioner"
	"github.com/urfave/cli/v2"
)

var flagCert = &cli.StringFlag{
	Name:  "cert",
	Usage: "Path to a PEM certificate file",
}

var flagKey = &cli.StringFlag{
	Name:  "key",
	Usage: "Path to a PEM private key file",
}

var flagNoGenerate = &cli.BoolFlag{
	Name:  "no-generate",
	Value: false,
	Usage: "serve existing key.pem/cert.pem instead of provisioning fresh ones",
}

func main() {
	app := &cli.App{
		Name:           "cert-provisioner",
		Usage:          "Provision short-lived self-signed TLS certificates for local development",
		DefaultCommand: "generate",
		Flags:          flags.CommonFlags,
		Commands: []*cli.Command{
			{
				Name:        "generate",
				Usage:       "Generate key.pem, cert.pem and cert.sha256",
				Description: "Writes a fresh ECDSA P-256 key, a self-signed certificate (CN=localhost, 14 days by default), and the certificate's SHA-256 fingerprint. Existing files are overwritten.",
				Flags: []cli.Flag{
					flags.OutDirFlag,
					flags.CommonNameFlag,
					flags.ValidityFlag,
				},
				Action: func(cCtx *cli.Context) error {
					p, err := provisioner.New(provisioner.Config{
						OutputDir:  cCtx.String(flags.OutDirFlag.Name),
						CommonName: cCtx.String(flags.CommonNameFlag.Name),
						Validity:   cCtx.Duration(flags.ValidityFlag.Name),
						Log:        flags.SetupLogger(cCtx),
					})
					if err != nil {
						return err
					}

					_, err = p.Provision()
					return err
				},
			},
			{
				Name:      "fingerprint",
				Usage:     "Print the SHA-256 fingerprint of a certificate file",
				ArgsUsage: "[--cert cert.pem]",
				Flags: []cli.Flag{
					flagCert,
				},
				Action: func(cCtx *cli.Context) error {
					certPEM, err := os.ReadFile(certPath(cCtx))
					if err != nil {
						return err
					}

					fingerprint, err := cryptoutils.Fingerprint(certPEM)
					if err != nil {
						return err
					}

					fmt.Printf("Digest: %s\n", fingerprint)
					return nil
				},
			},
			{
				Name:  "verify",
				Usage: "Check that a key and certificate match and carry the expected subject",
				Flags: []cli.Flag{
					flagCert,
					flagKey,
					flags.CommonNameFlag,
				},
				Action: func(cCtx *cli.Context) error {
					keyPEM, err := os.ReadFile(keyPath(cCtx))
					if err != nil {
						return err
					}
					certPEM, err := os.ReadFile(certPath(cCtx))
					if err != nil {
						return err
					}

					if err := cryptoutils.VerifyCertificate(keyPEM, certPEM, cCtx.String(flags.CommonNameFlag.Name)); err != nil {
						return err
					}

					fmt.Println("OK")
					return nil
				},
			},
			{
				Name:        "serve",
				Usage:       "Provision a certificate and serve its fingerprint over HTTPS",
				Description: "Runs a localhost HTTPS server using the provisioned certificate so clients can verify their pinned digest end to end.",
				Flags: []cli.Flag{
					flags.OutDirFlag,
					flags.CommonNameFlag,
					flags.ValidityFlag,
					flags.ListenAddrFlag,
					flags.MetricsAddrFlag,
					flags.PprofFlag,
					flags.DrainSecondsFlag,
					flagNoGenerate,
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServe(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	var certPath, keyPath string
	if cCtx.Bool(flagNoGenerate.Name) {
		outDir := cCtx.String(flags.OutDirFlag.Name)
		if outDir == "" {
			execPath, err := os.Executable()
			if err != nil {
				return err
			}
			outDir = filepath.Dir(execPath)
		}
		certPath = filepath.Join(outDir, provisioner.CertFileName)
		keyPath = filepath.Join(outDir, provisioner.KeyFileName)
	} else {
		p, err := provisioner.New(provisioner.Config{
			OutputDir:  cCtx.String(flags.OutDirFlag.Name),
			CommonName: cCtx.String(flags.CommonNameFlag.Name),
			Validity:   cCtx.Duration(flags.ValidityFlag.Name),
			Log:        logger,
		})
		if err != nil {
			return err
		}

		result, err := p.Provision()
		if err != nil {
			return err
		}
		certPath = result.CertPath
		keyPath = result.KeyPath
	}

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return err
	}

	cert, err := cryptoutils.NewTLSCert(certPEM)
	if err != nil {
		return err
	}

	handler, err := httpserver.NewHandler(cert, logger)
	if err != nil {
		return err
	}

	server, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cCtx.String(flags.ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(flags.MetricsAddrFlag.Name),
		Log:                      logger,
		CertFile:                 certPath,
		KeyFile:                  keyPath,
		EnablePprof:              cCtx.Bool(flags.PprofFlag.Name),
		DrainDuration:            flags.DrainDuration(cCtx),
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}, handler)
	if err != nil {
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}

func certPath(cCtx *cli.Context) string {
	if path := cCtx.String(flagCert.Name); path != "" {
		return path
	}
	return provisioner.CertFileName
}

func keyPath(cCtx *cli.Context) string {
	if path := cCtx.String(flagKey.Name); path != "" {
		return path
	}
	return provisioner.KeyFileName
}
