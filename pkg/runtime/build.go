package runtime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"

	"github.com/kubelab/kubelab/pkg/log"
	"github.com/kubelab/kubelab/pkg/metrics"
	"github.com/kubelab/kubelab/pkg/types"
)

// buildMessage is one line of the daemon's JSON build stream
type buildMessage struct {
	Stream      string          `json:"stream"`
	Error       string          `json:"error"`
	ErrorDetail *struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
	Aux json.RawMessage `json:"aux"`
}

// BuildImage builds an image from a local build context and tags it. The
// returned result carries the daemon's build output line by line; a build
// that the daemon rejects (bad Dockerfile, failing RUN step) is reported as
// Success=false with the output preserved, not as an error.
func (g *DockerGateway) BuildImage(ctx context.Context, contextDir, dockerfilePath, tag string) (*types.BuildResult, error) {
	result := &types.BuildResult{}

	buildContext, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return result, fmt.Errorf("failed to tar build context %s: %w", contextDir, err)
	}
	defer buildContext.Close()

	if dockerfilePath == "" {
		dockerfilePath = "Dockerfile"
	}

	resp, err := g.api.ImageBuild(ctx, buildContext, dockertypes.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfilePath,
		Remove:     true,
	})
	if err != nil {
		return result, fmt.Errorf("failed to start image build: %w", err)
	}
	defer resp.Body.Close()

	logger := log.WithComponent("runtime")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var buildErr string
	for scanner.Scan() {
		var msg buildMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			// Pass opaque lines through untouched
			result.Output = append(result.Output, scanner.Text())
			continue
		}
		if line := strings.TrimRight(msg.Stream, "\n"); line != "" {
			result.Output = append(result.Output, line)
		}
		if msg.Error != "" {
			buildErr = msg.Error
			if msg.ErrorDetail != nil && msg.ErrorDetail.Message != "" {
				buildErr = msg.ErrorDetail.Message
			}
		}
		if len(msg.Aux) > 0 {
			var aux struct {
				ID string `json:"ID"`
			}
			if err := json.Unmarshal(msg.Aux, &aux); err == nil && aux.ID != "" {
				result.ImageID = aux.ID
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read build output: %w", err)
	}

	if buildErr != "" {
		result.Output = append(result.Output, "ERROR: "+buildErr)
		metrics.ImageBuildsTotal.WithLabelValues("failed").Inc()
		logger.Debug().Str("tag", tag).Str("error", buildErr).Msg("image build failed")
		return result, nil
	}

	// Older daemons omit the aux record; fall back to an inspect by tag
	if result.ImageID == "" {
		if img, err := g.GetImage(ctx, tag); err == nil && img != nil {
			result.ImageID = img.ID
		}
	}

	result.Success = true
	metrics.ImageBuildsTotal.WithLabelValues("succeeded").Inc()
	logger.Debug().Str("tag", tag).Str("image_id", result.ImageID).Msg("image build succeeded")
	return result, nil
}
