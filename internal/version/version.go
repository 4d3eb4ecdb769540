// Package version holds build metadata. Commit and BuildDate are set with
// -ldflags "-X github.com/doeshing/chat-cli/internal/version.Commit=...".
package version

var (
	Version   = "1.0.0"
	Commit    = ""
	BuildDate = ""
)
