// Package common holds process-level helpers shared by the command
// line entry points: logger setup and build version information.
package common

// PackageName identifies this service in metrics and logs.
const PackageName = "dev-cert-provisioner"

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/ruteri/dev-cert-provisioner/common.Version=...".
var Version = "dev"
