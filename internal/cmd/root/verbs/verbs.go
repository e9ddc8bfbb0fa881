package verbs

const (
	Get   = VerbValue("get")
	Patch = VerbValue("patch")
	View  = VerbValue("view")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, patch, view)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
