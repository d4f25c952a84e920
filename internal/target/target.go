// Package target writes the generated artifact bundle: the wrapper script,
// the component's resources and a build info record, laid out so the
// wrapper can run in place.
package target

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	"gopkg.in/yaml.v3"

	"github.com/greatliontech/wrapgen/pkg/component"
)

var tracer = otel.Tracer("wrapgen/target")

// Target is an output directory backed by a gocloud.dev bucket.
type Target struct {
	bucket *blob.Bucket
	dir    string
}

// New opens the output directory, creating it when absent.
// fileblob URL format: file:///absolute/path?create_dir=true
func New(ctx context.Context, dir string) (*Target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	url := "file://" + abs + "?create_dir=true&metadata=skip"
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open output bucket: %w", err)
	}
	return &Target{bucket: bucket, dir: abs}, nil
}

// Close releases the underlying bucket.
func (t *Target) Close() error { return t.bucket.Close() }

// Dir returns the absolute output directory.
func (t *Target) Dir() string { return t.dir }

// Write lays out the bundle: the wrapper under the component's name with
// the executable bit set, every resource beside it, and .build-info.yaml.
func (t *Target) Write(ctx context.Context, comp *component.Component, wrapper []byte, info *BuildInfo) error {
	ctx, span := tracer.Start(ctx, "target.Write")
	defer span.End()

	if err := t.put(ctx, comp.Name, wrapper, 0755); err != nil {
		return err
	}
	for _, res := range comp.Resources {
		data, err := resourceBytes(comp, res)
		if err != nil {
			return err
		}
		mode := os.FileMode(0644)
		if res.Executable {
			mode = 0755
		}
		if err := t.put(ctx, filepath.ToSlash(res.Path), data, mode); err != nil {
			return err
		}
	}
	info.OutputDir = Anonymize(t.dir)
	infoBytes, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	if err := t.put(ctx, BuildInfoFile, infoBytes, 0644); err != nil {
		return err
	}
	slog.Info("artifact bundle written", "component", comp.Name, "dir", Anonymize(t.dir))
	return nil
}

// put writes one blob and then fixes up the file mode, which the blob
// layer itself cannot express.
func (t *Target) put(ctx context.Context, key string, data []byte, mode os.FileMode) error {
	w, err := t.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return os.Chmod(filepath.Join(t.dir, filepath.FromSlash(key)), mode)
}

func resourceBytes(comp *component.Component, res component.Resource) ([]byte, error) {
	if res.Text != "" {
		return []byte(res.Text), nil
	}
	path := res.Path
	if !filepath.IsAbs(path) && comp.Dir != "" {
		path = filepath.Join(comp.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", res.Path, err)
	}
	return data, nil
}
