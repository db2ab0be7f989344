package plugin

// Request message types.
const (
	TypeListCollections = "list-collections"
	TypeListModes       = "list-modes"
	TypeImport          = "import"
	TypeExport          = "export"
	TypeDeleteAll       = "delete-all-collections"
	TypeGetTemplate     = "get-default-template"
	TypePreviewMode     = "preview-mode-as-frame"
)

// Response message types.
const (
	TypeCollections    = "collections"
	TypeModes          = "modes"
	TypeImportComplete = "import-complete"
	TypeExportData     = "export-data"
	TypeDeleteComplete = "delete-complete"
	TypeTemplateData   = "template-data"
	TypeFrameCreated   = "frame-created"
	TypeError          = "error"
)

// legacyTypes maps message names used by earlier UI builds.
var legacyTypes = map[string]string{
	"get-collections":        TypeListCollections,
	"get-modes":              TypeListModes,
	"get-collection-modes":   TypeListModes,
	"import-variables":       TypeImport,
	"create-variables":       TypeImport,
	"export-variables":       TypeExport,
	"delete-collections":     TypeDeleteAll,
	"download-template":      TypeGetTemplate,
	"create-frame":           TypePreviewMode,
	"create-frame-with-mode": TypePreviewMode,
}

// Canonical returns the current name of a request type, translating legacy
// names.
func Canonical(typ string) string {
	if c, ok := legacyTypes[typ]; ok {
		return c
	}
	return typ
}

// Request is a command from the UI peer. Only the fields of the given Type
// are read.
type Request struct {
	Type         string `json:"type"`
	CollectionID string `json:"collectionId,omitempty"`
	ModeID       string `json:"modeId,omitempty"`

	// Data is the document text of an import.
	Data string `json:"data,omitempty"`

	// SelectedCollections limits an export. Empty exports everything.
	SelectedCollections []CollectionRef `json:"selectedCollections,omitempty"`
	// UseHexRef writes colors as hex strings. Defaults to true.
	UseHexRef *bool `json:"useHexRef,omitempty"`
}

// CollectionRef names a collection by id.
type CollectionRef struct {
	ID string `json:"id"`
}

// Response is a reply to the UI peer.
type Response interface {
	ResponseType() string
}

// CollectionSummary is one entry of a collections response.
type CollectionSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	VariableCount int    `json:"variableCount"`
}

type CollectionsResponse struct {
	Type        string              `json:"type"`
	Collections []CollectionSummary `json:"collections"`
}

// ModeSummary is one entry of a modes response.
type ModeSummary struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

type ModesResponse struct {
	Type  string        `json:"type"`
	Modes []ModeSummary `json:"modes"`
}

// ImportResponse reports how many variables an import created. Reused
// variables are not counted.
type ImportResponse struct {
	Type          string `json:"type"`
	VariableCount int    `json:"variableCount"`
}

// DataResponse carries an indented JSON document, for exports and the
// template.
type DataResponse struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type DeleteResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type FrameResponse struct {
	Type    string `json:"type"`
	FrameID string `json:"frameId"`
}

// ErrorResponse reports a failed command.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (r CollectionsResponse) ResponseType() string { return r.Type }
func (r ModesResponse) ResponseType() string       { return r.Type }
func (r ImportResponse) ResponseType() string      { return r.Type }
func (r DataResponse) ResponseType() string        { return r.Type }
func (r DeleteResponse) ResponseType() string      { return r.Type }
func (r FrameResponse) ResponseType() string       { return r.Type }
func (r ErrorResponse) ResponseType() string       { return r.Type }
