package meta

const (
	// CLIName is the binary name used in help text, config paths and env prefixes.
	CLIName = "happyctl"

	// ProductName is the human readable name of the backend this CLI administers.
	ProductName = "HappyJobs"
)
