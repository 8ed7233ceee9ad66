package rustbind

import (
	"context"

	"github.com/charmbracelet/log"
)

// BuildModule compiles the native library for def into config.OutputDir and
// writes the loader module next to it.
//
// # Process Flow
//
//  1. Check for context cancellation
//  2. Select a builder for def's manifest
//  3. Build the library (compile, locate, copy under def.LibFilename)
//  4. Write <Name>.py exporting lib and ffi
//
// If any step fails, processing stops and the error is returned with
// Success=false. There is no partial success: a library without its loader
// (or the reverse) is never reported as built.
func (f *BuilderFactory) BuildModule(ctx context.Context, config *BuildConfig, def *ModuleDef, logger *log.Logger) (*BuildResult, error) {
	if logger == nil {
		logger = log.Default()
	}

	if err := ctx.Err(); err != nil {
		return &BuildResult{Error: err}, err
	}

	builder, err := f.BuilderFor(def.ManifestPath)
	if err != nil {
		return &BuildResult{Error: err}, err
	}

	logger.Info("building native library", "module", def.ModulePath, "builder", builder.Name())
	result, err := builder.Build(ctx, config, def)
	if err != nil {
		if result == nil {
			result = &BuildResult{Error: err}
		}
		return result, err
	}
	for _, line := range result.Output {
		logger.Debug(line, "module", def.ModulePath)
	}

	logger.Info("building python wrapper", "module", def.ModulePath)
	loader, err := WriteLoaderModule(config.OutputDir, def)
	if err != nil {
		result.Success = false
		result.Error = err
		return result, err
	}
	result.Loader = loader

	return result, nil
}
