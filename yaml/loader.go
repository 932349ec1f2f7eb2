// Package yaml loads extraction schema definitions from YAML files.
//
// A schema file looks like:
//
//	prompt: Extract full details of this course.
//	fields:
//	  - name: course_name
//	    description: Title of the course
//	    required: true
//	  - name: fees
//	    description: Tuition fees
package yaml

import (
	"os"

	"github.com/boldstep/coursefetch"
	"gopkg.in/yaml.v3"
)

// Ensure Loader implements coursefetch.SchemaLoader at compile time.
var _ coursefetch.SchemaLoader = (*Loader)(nil)

// Loader loads extraction schemas from YAML files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and validates the schema definition at path.
func (l *Loader) Load(path string) (coursefetch.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return coursefetch.Schema{}, coursefetch.Errorf(coursefetch.ENOTFOUND, "schema file %q not found", path)
		}
		return coursefetch.Schema{}, err
	}

	return Parse(data)
}

// Parse decodes and validates a YAML schema definition.
func Parse(data []byte) (coursefetch.Schema, error) {
	var schema coursefetch.Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return coursefetch.Schema{}, coursefetch.Errorf(coursefetch.EINVALID, "invalid schema YAML: %v", err)
	}

	if schema.Prompt == "" {
		schema.Prompt = coursefetch.DefaultSchema().Prompt
	}

	if err := schema.Validate(); err != nil {
		return coursefetch.Schema{}, err
	}

	return schema, nil
}
