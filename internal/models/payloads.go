package models

// These structs define the request and response passed between the shells
// (HTTP function, CLI) and the splitter service.

// SplitRequest is the input for the csv-splitter service.
type SplitRequest struct {
	RequestID string `json:"requestId"`
	Filename  string `json:"filename"`
	Data      []byte `json:"-"`
	// ChunkSize overrides the configured chunk size when set.
	ChunkSize *int `json:"chunkSize,omitempty"`
}

// SplitResponse is the output of the csv-splitter service.
type SplitResponse struct {
	Status      string   `json:"status"`
	ArchiveName string   `json:"archiveName"`
	Archive     []byte   `json:"-"`
	Stem        string   `json:"stem"`
	ChunkSize   int      `json:"chunkSize"`
	RowCount    int      `json:"rowCount"`
	ColumnCount int      `json:"columnCount"`
	ChunkCount  int      `json:"chunkCount"`
	Entries     []string `json:"entries"`
}

// SplitSettings is what the HTTP function reports on GET so a UI can show
// the split plan before uploading.
type SplitSettings struct {
	ChunkSize      int    `json:"chunkSize"`
	ArchiveFolder  string `json:"archiveFolder"`
	ArchiveName    string `json:"archiveName"`
	MaxUploadBytes int64  `json:"maxUploadBytes"`
}
