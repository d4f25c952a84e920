package generate

import (
	"testing"

	"github.com/greatliontech/wrapgen/pkg/component"
)

func TestNativeExecutor(t *testing.T) {
	tests := []struct {
		name string
		res  component.Resource
		want string
	}{
		{"script", component.Resource{Path: "run.sh", Text: "x"}, `bash "$WRAPGEN_META_RESOURCES_DIR/run.sh"`},
		{"executable", component.Resource{Path: "tool", Executable: true}, `"$WRAPGEN_META_RESOURCES_DIR/tool"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := &component.Component{Name: "c", Resources: []component.Resource{tt.res}}
			got, err := NativeExecutor(comp)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNativeExecutorNoResources(t *testing.T) {
	if _, err := NativeExecutor(&component.Component{Name: "c"}); err == nil {
		t.Fatal("expected error for component without resources")
	}
}
