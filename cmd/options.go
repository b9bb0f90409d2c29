package cmd

// Options holds the flag values shared across lifecycle commands.
// Command-specific flags (destination teams, inactivity threshold)
// live here too so the run helpers take a single value.
type Options struct {
	Org       string
	DryRun    bool
	Yes       bool
	Format    string
	Verbosity int

	// emeritus
	MonthsInactiveThreshold int

	// onboard
	Teams []string
}
