package docs

// Entry is one documentation screenshot with its description.
type Entry struct {
	File string `json:"file"`
	Desc string `json:"desc"`
	Time string `json:"time"`
}

// SaveRequest describes an uploaded screenshot.
type SaveRequest struct {
	// FileName is the uploaded file's original name; only its extension is kept.
	FileName    string
	Data        []byte
	Description string
	// ProjectID is the project selected when the screenshot was taken. It is
	// only used for the activity log.
	ProjectID string
}
