package container

import (
	"strings"
	"testing"

	"github.com/greatliontech/wrapgen/pkg/component"
)

func TestRenderDockerfile(t *testing.T) {
	eng := &component.Engine{
		Image: "ubuntu:24.04",
		Setup: []component.SetupRequirement{
			{Type: "apt", Packages: []string{"curl", "jq"}},
			{Type: "pip", Packages: []string{"numpy"}},
			{Type: "run", Command: "ln -s /usr/bin/python3 /usr/bin/python"},
		},
		BuildArgs: map[string]string{"HTTP_PROXY": "", "CACHE_BUST": ""},
	}
	df, err := renderDockerfile(eng)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(df, "FROM ubuntu:24.04\n") {
		t.Errorf("missing FROM line:\n%s", df)
	}
	// build args are declared in sorted order
	if strings.Index(df, "ARG CACHE_BUST") > strings.Index(df, "ARG HTTP_PROXY") {
		t.Errorf("build args not sorted:\n%s", df)
	}
	for _, want := range []string{
		"apt-get install -y --no-install-recommends curl jq",
		"rm -rf /var/lib/apt/lists/*",
		"pip install --no-cache-dir numpy",
		"RUN ln -s /usr/bin/python3 /usr/bin/python",
	} {
		if !strings.Contains(df, want) {
			t.Errorf("missing %q in:\n%s", want, df)
		}
	}
}

func TestRenderDockerfileErrors(t *testing.T) {
	tests := []struct {
		name string
		req  component.SetupRequirement
	}{
		{"unknown type", component.SetupRequirement{Type: "conda", Packages: []string{"x"}}},
		{"apt without packages", component.SetupRequirement{Type: "apt"}},
		{"run without command", component.SetupRequirement{Type: "run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &component.Engine{Image: "alpine", Setup: []component.SetupRequirement{tt.req}}
			if _, err := renderDockerfile(eng); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderDockerfileRPackages(t *testing.T) {
	eng := &component.Engine{
		Image: "rocker/r-ver:4.3",
		Setup: []component.SetupRequirement{{Type: "r", Packages: []string{"dplyr", "ggplot2"}}},
	}
	df, err := renderDockerfile(eng)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(df, `install.packages(c("dplyr", "ggplot2")`) {
		t.Errorf("missing install.packages call:\n%s", df)
	}
}
