package mock

import "github.com/boldstep/coursefetch"

var _ coursefetch.SchemaLoader = (*SchemaLoader)(nil)

// SchemaLoader is a mock implementation of coursefetch.SchemaLoader.
type SchemaLoader struct {
	LoadFn func(path string) (coursefetch.Schema, error)
}

func (l *SchemaLoader) Load(path string) (coursefetch.Schema, error) {
	return l.LoadFn(path)
}
