package coursefetch

// SchemaField describes one field the provider should extract from a page.
type SchemaField struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// Schema describes the structured object a provider should return for a
// course page: an instruction prompt plus the set of fields to extract.
type Schema struct {
	Prompt string        `json:"prompt" yaml:"prompt"`
	Fields []SchemaField `json:"fields" yaml:"fields"`
}

// Validate returns an error if the schema is empty or contains duplicate or
// unnamed fields.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return Errorf(EINVALID, "schema requires at least one field")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return Errorf(EINVALID, "schema field name required")
		}
		if seen[f.Name] {
			return Errorf(EINVALID, "duplicate schema field %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// FieldNames returns the names of all fields in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// DefaultSchema returns the course extraction schema used when no schema file
// is supplied.
func DefaultSchema() Schema {
	return Schema{
		Prompt: "Extract full details of this course: course name, level, " +
			"fees (UK and International if available), intake / year of entry, " +
			"entry requirements, full description, duration. " +
			"Return a structured object with these fields.",
		Fields: []SchemaField{
			{Name: "course_name", Description: "Title of the course / programme", Required: true},
			{Name: "level", Description: "Undergraduate, Postgraduate, Diploma, etc."},
			{Name: "fees", Description: "Fees or cost info"},
			{Name: "intake_date", Description: "Next intake or start date"},
			{Name: "requirements", Description: "Entry requirements or prerequisites"},
			{Name: "description", Description: "Course description / overview"},
			{Name: "duration", Description: "Course duration"},
		},
	}
}

// SchemaLoader loads an extraction schema from a file.
type SchemaLoader interface {
	// Load reads and validates a schema definition.
	Load(path string) (Schema, error)
}

// CourseFromFields builds a course record from a provider's field-name to
// value mapping. Unknown fields are ignored; missing fields stay empty.
func CourseFromFields(fields map[string]string, sourceURL string) *Course {
	return &Course{
		Name:         fields["course_name"],
		Level:        fields["level"],
		Fees:         fields["fees"],
		IntakeDate:   fields["intake_date"],
		Requirements: fields["requirements"],
		Description:  fields["description"],
		Duration:     fields["duration"],
		SourceURL:    sourceURL,
	}
}
