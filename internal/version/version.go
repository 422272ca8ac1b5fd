package version

// Set at link time by goreleaser:
//
//	-X github.com/Norgate-AV/sassbuild/internal/version.Version={{.Version}}
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
