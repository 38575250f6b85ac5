package app

import (
	"time"

	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags on the given FlagSet.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("nodes", "n", nil, "Elasticsearch node URLs (comma-separated)")
	flags.StringP("index", "i", "", "Index to delete and recreate")
	flags.StringP("schema-file", "s", "", "JSON file overriding the built-in schema")
	flags.DurationP("timeout", "t", 0*time.Second, "Timeout for the whole bootstrap run")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Bool("skip-delete", false, "Do not delete the index first (create-only)")
}
