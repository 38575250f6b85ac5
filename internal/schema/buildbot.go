package schema

// Document type names declared by the buildbot index.
const (
	DocTypeBuild = "build"
	DocTypeStep  = "step"
)

// Buildbot returns the built-in schema for the buildbot telemetry
// index. Identity fields (builder names, results, revisions and so on)
// are exact-match strings so they can serve as categorical filters;
// blamelist and tags are tokenized for full-text search.
func Buildbot() Schema {
	keyword := Field{Type: TypeString}
	text := Field{Type: TypeString, Analyzed: true}
	long := Field{Type: TypeLong}
	double := Field{Type: TypeDouble}
	date := Field{Type: TypeDate}

	return Schema{
		DocTypeBuild: Mapping{
			"name":             keyword,
			"number":           long,
			"project":          keyword,
			"builder":          keyword,
			"slave":            keyword,
			"type":             keyword,
			"result":           keyword,
			"start":            date,
			"end":              date,
			"duration":         double,
			"total_duration":   double,
			"waiting_duration": double,
			"blamelist":        text,
			"tags":             text,
		},
		DocTypeStep: Mapping{
			"step_name":    keyword,
			"step_number":  long,
			"buildername":  keyword,
			"buildnumber":  long,
			"repository":   keyword,
			"got_revision": keyword,
			"branch":       keyword,
			"revision":     keyword,
			"slavename":    keyword,
			"slave":        keyword,
			"result":       keyword,
			"start":        date,
			"end":          date,
			"duration":     double,
			"blamelist":    text,
			"tags":         text,
		},
	}
}
