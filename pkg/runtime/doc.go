/*
Package runtime wraps the Docker Engine API for the validation engine.

The DockerGateway covers the image operations exercises validate against:
building an image from a learner's working directory, inspecting a single
image, and listing images by reference. IsAvailable pings the daemon so the
engine can gate a whole validation run instead of failing check by check.

GetImage mirrors the cluster gateway's lookup semantics: a missing image is
(nil, nil), not an error. BuildImage never turns a failing Dockerfile into a
Go error; the daemon's output comes back in the BuildResult so it can be
shown to the learner.
*/
package runtime
