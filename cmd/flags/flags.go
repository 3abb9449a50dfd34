// Package flags holds the CLI flags and logger wiring shared by the
// provisioner's commands.
package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/dev-cert-provisioner/common"
	"github.com/ruteri/dev-cert-provisioner/provisioner"
	"github.com/urfave/cli/v2"
)

// SetupLogger builds the process logger from the common log flags.
func SetupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJsonFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	})

	if cCtx.Bool(LogUidFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var OutDirFlag = &cli.StringFlag{
	Name:  "out-dir",
	Usage: "directory to write key.pem, cert.pem and cert.sha256 to (default: the directory containing this executable)",
}

var CommonNameFlag = &cli.StringFlag{
	Name:  "cn",
	Value: provisioner.DefaultCommonName,
	Usage: "certificate subject common name",
}

var ValidityFlag = &cli.DurationFlag{
	Name:  "validity",
	Value: provisioner.DefaultValidity,
	Usage: "certificate validity period (at most 336h for browser certificate pinning)",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:4443",
	Usage: "address for the pin-check HTTPS server to listen on",
}

var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "",
	Usage: "address to listen on for Prometheus metrics, disabled if empty",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

// DrainDuration converts the drain-seconds flag to a duration.
func DrainDuration(cCtx *cli.Context) time.Duration {
	return time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}
