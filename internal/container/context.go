package container

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// buildContext packs the recipe and the component's resources into a tar
// stream suitable for a docker image build. Resources matching an ignore
// pattern are left out.
func buildContext(comp *component.Component, dockerfile string) (io.Reader, error) {
	ignores, err := compileIgnores(comp)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if err := writeTarFile(tw, "Dockerfile", []byte(dockerfile), 0644); err != nil {
		return nil, err
	}

	for _, res := range comp.Resources {
		name := filepath.ToSlash(res.Path)
		if ignored(ignores, name) {
			continue
		}
		data, mode, err := resourceContent(comp, res)
		if err != nil {
			return nil, err
		}
		if err := writeTarFile(tw, name, data, mode); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func compileIgnores(comp *component.Component) ([]glob.Glob, error) {
	if comp.Engine == nil {
		return nil, nil
	}
	out := make([]glob.Glob, 0, len(comp.Engine.Ignore))
	for _, pat := range comp.Engine.Ignore {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pat, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func ignored(ignores []glob.Glob, name string) bool {
	for _, g := range ignores {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func resourceContent(comp *component.Component, res component.Resource) ([]byte, int64, error) {
	var mode int64 = 0644
	if res.Executable {
		mode = 0755
	}
	if res.Text != "" {
		return []byte(res.Text), mode, nil
	}
	path := res.Path
	if !filepath.IsAbs(path) && comp.Dir != "" {
		path = filepath.Join(comp.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read resource %s: %w", res.Path, err)
	}
	return data, mode, nil
}

func writeTarFile(tw *tar.Writer, name string, data []byte, mode int64) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    mode,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(data); err != nil {
		return err
	}
	return nil
}
