package rustbind

import (
	"fmt"
	"path/filepath"
)

// BuilderFactory manages the registration and selection of native builders.
//
// # Usage
//
// Create a factory with the standard builders:
//
//	factory := rustbind.NewBuilderFactory()
//
// Or create an empty factory and register custom builders:
//
//	factory := &rustbind.BuilderFactory{}
//	factory.Register(&MyCustomBuilder{})
//
// # Builder Selection
//
// For a ModuleDef the factory looks at the base name of its manifest and
// returns the first registered builder whose CanBuild() accepts it.
//
// BuilderFactory is NOT thread-safe for registration.
// Register all builders before use.
type BuilderFactory struct {
	builders []Builder
}

// NewBuilderFactory creates a factory with all standard builders registered.
func NewBuilderFactory() *BuilderFactory {
	factory := &BuilderFactory{}
	factory.Register(&CargoBuilder{})
	return factory
}

// Register adds a new builder to the factory.
//
// Builders are checked in the order they are registered.
func (f *BuilderFactory) Register(builder Builder) {
	f.builders = append(f.builders, builder)
}

// BuilderFor returns the appropriate builder for the given manifest file.
//
// The manifestFile can be a full path or just a filename. Only the base
// filename is used for matching.
func (f *BuilderFactory) BuilderFor(manifestFile string) (Builder, error) {
	filename := filepath.Base(manifestFile)

	for _, builder := range f.builders {
		if builder.CanBuild(filename) {
			return builder, nil
		}
	}

	return nil, fmt.Errorf("no builder found for manifest file: %s", filename)
}

// ListBuilders returns a copy of all registered builders.
func (f *BuilderFactory) ListBuilders() []Builder {
	return append([]Builder{}, f.builders...)
}
