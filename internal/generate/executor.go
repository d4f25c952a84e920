package generate

import (
	"github.com/greatliontech/wrapgen/internal/bash"
	"github.com/greatliontech/wrapgen/pkg/component"
)

// NativeExecutor returns the invocation line for a component running
// directly on the host: the main resource out of the staged resources
// directory, run through bash unless the resource is marked executable.
func NativeExecutor(comp *component.Component) (string, error) {
	main, err := comp.MainResource()
	if err != nil {
		return "", err
	}
	path := `"$WRAPGEN_META_RESOURCES_DIR/` +
		bash.Escape(main.Path, bash.EscapeOpts{Quote: true, Backtick: true}) + `"`
	if main.Executable {
		return path, nil
	}
	return "bash " + path, nil
}
