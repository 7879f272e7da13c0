package version

// Version is overridden at build time with
// -ldflags "-X github.com/thomas-vilte/gravitycommit/internal/version.Version=x.y.z".
var Version = "0.1.0"

func FullVersion() string {
	return "v" + Version
}
