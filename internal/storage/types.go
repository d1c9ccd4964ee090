package storage

// EntryKind distinguishes files from folders in listings.
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// Entry describes one direct child of a listed directory. It is a read-only
// projection computed fresh on every listing, never cached.
type Entry struct {
	Name string    `json:"name"`
	Path string    `json:"path"` // relative to the user root
	Kind EntryKind `json:"kind"`
	Size int64     `json:"size,omitempty"` // files only
	Type string    `json:"type"`           // lowercased extension, or "file"/"folder"
}

// Crumb is one breadcrumb segment: the display name of a path component and
// the cumulative relative path up to and including it.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Listing is the result of browsing one directory.
type Listing struct {
	Path        string  `json:"path"`
	Files       []Entry `json:"files"`
	Folders     []Entry `json:"folders"`
	Breadcrumbs []Crumb `json:"breadcrumbs"`
}
