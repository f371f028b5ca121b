package build

// Version is the build version, set at link time with
// -ldflags "-X github.com/andydunstall/rumour/pkg/build.Version=...".
var Version = "dev"
