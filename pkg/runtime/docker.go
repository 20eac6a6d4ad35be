package runtime

import (
	"context"
	"fmt"
	"io"
	"time"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/kubelab/kubelab/pkg/log"
	"github.com/kubelab/kubelab/pkg/types"
)

// UnavailableError indicates the Docker daemon could not be reached. The
// validation engine treats it as a gating failure, never as a check failure.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return "container runtime is unavailable"
	}
	return fmt.Sprintf("container runtime is unavailable: %s", e.Reason)
}

// API is the slice of the Docker Engine client the gateway depends on.
// *client.Client satisfies it; tests substitute a fake daemon.
type API interface {
	Ping(ctx context.Context) (dockertypes.Ping, error)
	ImageBuild(ctx context.Context, buildContext io.Reader, options dockertypes.ImageBuildOptions) (dockertypes.ImageBuildResponse, error)
	ImageInspectWithRaw(ctx context.Context, imageID string) (dockertypes.ImageInspect, []byte, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
}

// DockerGateway is a thin client over the Docker Engine API exposing image
// build, inspect, and list plus availability probing.
type DockerGateway struct {
	api API
}

// New creates a DockerGateway from an existing API client. Intended for
// tests and dependency injection.
func New(api API) *DockerGateway {
	return &DockerGateway{api: api}
}

// NewFromEnv creates a DockerGateway from the environment (DOCKER_HOST and
// friends), negotiating the API version with the daemon.
func NewFromEnv() (*DockerGateway, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerGateway{api: cli}, nil
}

// IsAvailable probes the daemon with a ping. It reports reachability only;
// callers cache the result across a validation run.
func (g *DockerGateway) IsAvailable(ctx context.Context) bool {
	_, err := g.api.Ping(ctx)
	if err != nil {
		logger := log.WithComponent("runtime")
		logger.Debug().Err(err).Msg("availability probe failed")
		return false
	}
	return true
}

// GetImage inspects an image by name or ID. A missing image returns
// (nil, nil); only transport errors are returned as errors.
func (g *DockerGateway) GetImage(ctx context.Context, nameOrID string) (*types.Image, error) {
	inspect, _, err := g.api.ImageInspectWithRaw(ctx, nameOrID)
	if errdefs.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect image %s: %w", nameOrID, err)
	}

	created, _ := time.Parse(time.RFC3339Nano, inspect.Created)
	return &types.Image{
		ID:      inspect.ID,
		Tags:    inspect.RepoTags,
		Size:    inspect.Size,
		Created: created,
	}, nil
}

// ListImages lists daemon images, optionally filtered by reference pattern
// (e.g. "myapp:*").
func (g *DockerGateway) ListImages(ctx context.Context, reference string) ([]types.Image, error) {
	opts := image.ListOptions{}
	if reference != "" {
		opts.Filters = filters.NewArgs(filters.Arg("reference", reference))
	}

	summaries, err := g.api.ImageList(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]types.Image, 0, len(summaries))
	for _, s := range summaries {
		images = append(images, types.Image{
			ID:      s.ID,
			Tags:    s.RepoTags,
			Size:    s.Size,
			Created: time.Unix(s.Created, 0),
		})
	}
	return images, nil
}
