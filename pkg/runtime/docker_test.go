package runtime

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory Docker daemon
type fakeAPI struct {
	pingErr    error
	inspect    dockertypes.ImageInspect
	inspectErr error
	summaries  []image.Summary
	listErr    error
	buildBody  string
	buildErr   error

	listOptions  image.ListOptions
	buildOptions dockertypes.ImageBuildOptions
}

func (f *fakeAPI) Ping(ctx context.Context) (dockertypes.Ping, error) {
	return dockertypes.Ping{}, f.pingErr
}

func (f *fakeAPI) ImageBuild(ctx context.Context, buildContext io.Reader, options dockertypes.ImageBuildOptions) (dockertypes.ImageBuildResponse, error) {
	f.buildOptions = options
	if f.buildErr != nil {
		return dockertypes.ImageBuildResponse{}, f.buildErr
	}
	return dockertypes.ImageBuildResponse{
		Body: io.NopCloser(bytes.NewBufferString(f.buildBody)),
	}, nil
}

func (f *fakeAPI) ImageInspectWithRaw(ctx context.Context, imageID string) (dockertypes.ImageInspect, []byte, error) {
	return f.inspect, nil, f.inspectErr
}

func (f *fakeAPI) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	f.listOptions = options
	return f.summaries, f.listErr
}

type notFoundErr struct{}

func (notFoundErr) Error() string { return "no such image" }
func (notFoundErr) NotFound()     {}

func TestIsAvailable(t *testing.T) {
	gw := New(&fakeAPI{})
	assert.True(t, gw.IsAvailable(context.Background()))

	gw = New(&fakeAPI{pingErr: errors.New("cannot connect to the docker daemon")})
	assert.False(t, gw.IsAvailable(context.Background()))
}

func TestGetImage_Found(t *testing.T) {
	api := &fakeAPI{
		inspect: dockertypes.ImageInspect{
			ID:       "sha256:abc123",
			RepoTags: []string{"myapp:v1", "myapp:latest"},
			Size:     1024,
			Created:  "2024-06-01T12:00:00.000000000Z",
		},
	}
	gw := New(api)

	img, err := gw.GetImage(context.Background(), "myapp:v1")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "sha256:abc123", img.ID)
	assert.Equal(t, []string{"myapp:v1", "myapp:latest"}, img.Tags)
	assert.Equal(t, int64(1024), img.Size)
	assert.False(t, img.Created.IsZero())
}

func TestGetImage_NotFoundReturnsNilNil(t *testing.T) {
	gw := New(&fakeAPI{inspectErr: notFoundErr{}})

	img, err := gw.GetImage(context.Background(), "missing:tag")
	require.NoError(t, err)
	assert.Nil(t, img)
	// Sanity: the fake error really is an errdefs not-found
	assert.True(t, errdefs.IsNotFound(notFoundErr{}))
}

func TestGetImage_TransportError(t *testing.T) {
	gw := New(&fakeAPI{inspectErr: errors.New("connection reset")})

	_, err := gw.GetImage(context.Background(), "myapp:v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to inspect image")
}

func TestListImages_WithReferenceFilter(t *testing.T) {
	api := &fakeAPI{
		summaries: []image.Summary{
			{ID: "sha256:aaa", RepoTags: []string{"myapp:v1"}, Size: 10, Created: 1717243200},
		},
	}
	gw := New(api)

	images, err := gw.ListImages(context.Background(), "myapp:*")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "sha256:aaa", images[0].ID)

	refs := api.listOptions.Filters.Get("reference")
	require.Len(t, refs, 1)
	assert.Equal(t, "myapp:*", refs[0])
}

func TestBuildImage_Success(t *testing.T) {
	api := &fakeAPI{
		buildBody: `{"stream":"Step 1/2 : FROM alpine\n"}
{"stream":" ---> abcdef123456\n"}
{"stream":"Successfully built abcdef123456\n"}
{"aux":{"ID":"sha256:abcdef123456"}}
`,
	}
	gw := New(api)

	result, err := gw.BuildImage(context.Background(), t.TempDir(), "Dockerfile", "myapp:v1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "sha256:abcdef123456", result.ImageID)
	assert.Contains(t, result.Output, "Step 1/2 : FROM alpine")
	assert.Equal(t, []string{"myapp:v1"}, api.buildOptions.Tags)
	assert.Equal(t, "Dockerfile", api.buildOptions.Dockerfile)
}

func TestBuildImage_DaemonReportsFailure(t *testing.T) {
	api := &fakeAPI{
		buildBody: `{"stream":"Step 1/2 : FROM alpine\n"}
{"errorDetail":{"message":"The command '/bin/sh -c make' returned a non-zero code: 2"},"error":"build failed"}
`,
	}
	gw := New(api)

	result, err := gw.BuildImage(context.Background(), t.TempDir(), "", "myapp:v1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Output[len(result.Output)-1], "non-zero code")
}

func TestBuildImage_TransportError(t *testing.T) {
	gw := New(&fakeAPI{buildErr: errors.New("cannot connect to the docker daemon")})

	result, err := gw.BuildImage(context.Background(), t.TempDir(), "", "myapp:v1")
	require.Error(t, err)
	assert.False(t, result.Success)
}
