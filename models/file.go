package models

// File is an in-memory attachment, e.g. the report photo embedded into the print form.
type File struct {
	FileName    string
	ContentType string
	Body        []byte
}
