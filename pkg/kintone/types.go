package kintone

// Wire types for the kintone REST API. JSON tags follow the platform's
// payloads; YAML tags let snapshots round-trip through the same structs.

// User is one entry of the /v1/users.json listing.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Valid bool   `json:"valid" yaml:"valid"`
}

// Group is one entry of the /v1/groups.json listing.
type Group struct {
	ID   string `json:"id" yaml:"id"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Entity is the subject reference embedded in ACL rights.
type Entity struct {
	Type string `json:"type" yaml:"type"`
	Code string `json:"code" yaml:"code"`
}

// AppRight is one ordered entry of the app-level ACL.
type AppRight struct {
	Entity           Entity `json:"entity" yaml:"entity"`
	IncludeSubs      bool   `json:"includeSubs" yaml:"includeSubs"`
	AppEditable      bool   `json:"appEditable" yaml:"appEditable"`
	RecordViewable   bool   `json:"recordViewable" yaml:"recordViewable"`
	RecordAddable    bool   `json:"recordAddable" yaml:"recordAddable"`
	RecordEditable   bool   `json:"recordEditable" yaml:"recordEditable"`
	RecordDeletable  bool   `json:"recordDeletable" yaml:"recordDeletable"`
	RecordImportable bool   `json:"recordImportable" yaml:"recordImportable"`
	RecordExportable bool   `json:"recordExportable" yaml:"recordExportable"`
}

// AppACL is the /k/v1/app/acl.json response.
type AppACL struct {
	Rights   []AppRight `json:"rights" yaml:"rights"`
	Revision string     `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// RecordRightEntity is one entry inside a record-level right.
type RecordRightEntity struct {
	Entity      Entity `json:"entity" yaml:"entity"`
	Viewable    bool   `json:"viewable" yaml:"viewable"`
	Editable    bool   `json:"editable" yaml:"editable"`
	Deletable   bool   `json:"deletable" yaml:"deletable"`
	IncludeSubs bool   `json:"includeSubs" yaml:"includeSubs"`
}

// RecordRight is one record-level rule block with its filter condition.
type RecordRight struct {
	FilterCond string              `json:"filterCond" yaml:"filterCond"`
	Entities   []RecordRightEntity `json:"entities" yaml:"entities"`
}

// RecordACL is the /k/v1/record/acl.json response.
type RecordACL struct {
	Rights   []RecordRight `json:"rights" yaml:"rights"`
	Revision string        `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// FieldRightEntity carries per-field accessibility (READ/WRITE/NONE).
type FieldRightEntity struct {
	Entity        Entity `json:"entity" yaml:"entity"`
	Accessibility string `json:"accessibility" yaml:"accessibility"`
	IncludeSubs   bool   `json:"includeSubs" yaml:"includeSubs"`
}

// FieldRight is the right set of a single field code.
type FieldRight struct {
	Code     string             `json:"code" yaml:"code"`
	Entities []FieldRightEntity `json:"entities" yaml:"entities"`
}

// FieldACL is the /k/v1/field/acl.json response.
type FieldACL struct {
	Rights   []FieldRight `json:"rights" yaml:"rights"`
	Revision string       `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// FieldProperty is one form field definition.
type FieldProperty struct {
	Type  string `json:"type" yaml:"type"`
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// FormFields is the /k/v1/app/form/fields.json response.
type FormFields struct {
	Properties map[string]FieldProperty `json:"properties" yaml:"properties"`
	Revision   string                   `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// FieldLabels flattens the form fields into a code -> label map for field
// entity resolution.
func (f FormFields) FieldLabels() map[string]string {
	labels := make(map[string]string, len(f.Properties))
	for code, prop := range f.Properties {
		label := prop.Label
		if label == "" {
			label = code
		}
		labels[code] = label
	}
	return labels
}

// ProcessState is one status of process management.
type ProcessState struct {
	Name  string `json:"name" yaml:"name"`
	Index string `json:"index" yaml:"index"`
}

// ProcessManagement is the /k/v1/app/status.json response.
type ProcessManagement struct {
	Enable bool                    `json:"enable" yaml:"enable"`
	States map[string]ProcessState `json:"states" yaml:"states"`
}

// AppSettings is the subset of /k/v1/app/settings.json the auditor uses.
type AppSettings struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Revision    string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// View is one entry of /k/v1/app/views.json.
type View struct {
	Type       string `json:"type" yaml:"type"`
	Name       string `json:"name" yaml:"name"`
	FilterCond string `json:"filterCond,omitempty" yaml:"filterCond,omitempty"`
	Sort       string `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// Views is the /k/v1/app/views.json response.
type Views struct {
	Views    map[string]View `json:"views" yaml:"views"`
	Revision string          `json:"revision,omitempty" yaml:"revision,omitempty"`
}
