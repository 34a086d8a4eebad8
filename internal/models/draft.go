package models

// Flow marks where free-text entry is destined while a session is inside
// the add-url/add-label states: catalog management returns to the catalog
// menu, post composition continues into the next composition step.
const (
	FlowCatalog = "catalog"
	FlowCompose = "compose"
)

// EditTarget kinds.
const (
	EditKindURL   = "url"
	EditKindLabel = "label"
)

// EditTarget names the catalog entry a pending edit applies to.
type EditTarget struct {
	Kind string
	ID   int64
}

// Draft is the post being composed in one session. It is never persisted;
// a process restart loses in-flight drafts.
type Draft struct {
	URL        string
	Label      string
	Text       string
	PhotoID    string
	Flow       string
	EditTarget *EditTarget
}
