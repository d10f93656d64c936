package version

// Tag is the build version stamped into the choo binaries, e.g.
// go build -ldflags "-X github.com/wjlander/choo/internal/version.Tag=v0.3.0".
var Tag = "dev"

// String returns Tag, or "dev" when the linker left it blank.
func String() string {
	if Tag == "" {
		return "dev"
	}
	return Tag
}

// UserAgent identifies outbound calls made by choo (Brevo API, choo-cli).
func UserAgent() string { return "choo/" + String() }
