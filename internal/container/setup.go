package container

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("wrapgen/container")

// Setup makes the effective image available in the local daemon: synthesized
// images are built from the recipe and the component's resources, plain
// images are pulled. With force set, existing images are rebuilt or
// re-pulled.
func (e *Engine) Setup(ctx context.Context, force bool) error {
	ctx, span := tracer.Start(ctx, "container.Setup",
		trace.WithAttributes(attribute.String("image", e.ref)))
	defer span.End()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	if !force {
		present, err := imagePresent(ctx, cli, e.ref)
		if err != nil {
			return err
		}
		if present {
			return nil
		}
	}

	if e.hasSetup {
		return e.build(ctx, cli)
	}
	return e.pull(ctx, cli)
}

func imagePresent(ctx context.Context, cli *client.Client, ref string) (bool, error) {
	imgs, err := cli.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, fmt.Errorf("list images: %w", err)
	}
	return len(imgs) > 0, nil
}

func (e *Engine) pull(ctx context.Context, cli *client.Client) error {
	rc, err := cli.ImagePull(ctx, e.ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", e.ref, err)
	}
	defer rc.Close()
	return relayDockerOutput(rc)
}

func (e *Engine) build(ctx context.Context, cli *client.Client) error {
	bctx, err := buildContext(e.comp, e.dockerfile)
	if err != nil {
		return err
	}
	args := make(map[string]*string, len(e.comp.Engine.BuildArgs))
	for k, v := range e.comp.Engine.BuildArgs {
		args[k] = &v
	}
	resp, err := cli.ImageBuild(ctx, bctx, build.ImageBuildOptions{
		Tags:       []string{e.ref},
		Dockerfile: "Dockerfile",
		BuildArgs:  args,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("build %s: %w", e.ref, err)
	}
	defer resp.Body.Close()
	return relayDockerOutput(resp.Body)
}

// relayDockerOutput streams the daemon's progress messages to stderr and
// surfaces any error message embedded in the stream.
func relayDockerOutput(r io.Reader) error {
	fd, isTerm := term.GetFdInfo(os.Stderr)
	return jsonmessage.DisplayJSONMessagesStream(r, os.Stderr, fd, isTerm, nil)
}
