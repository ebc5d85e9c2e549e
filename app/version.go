package app

var (
	Version = "0.00"
	Dev     = ""
	Commit  = ""
)

// VersionString returns the name and version including the commit
// for dev builds
func VersionString() string {
	version := Version

	if Dev != "" {
		version += "-dev." + Commit
	}

	if Commit != "" && Dev == "" {
		version += " (" + Commit + ")"
	}

	return Name() + " " + version
}

// Version is picked up by go-arg to handle --version
func (Args) Version() string {
	return VersionString()
}
