package version

// Version is set at build time, for example:
// go build -ldflags "-X github.com/orderof/catalog/pkg/version.Version=1.0.0".
var Version = "dev"
