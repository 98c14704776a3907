// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/phayes/freeport"
	"github.com/sirupsen/logrus"
)

const DefaultContainerImage = "selenium/standalone-chrome:latest"

const seleniumPort = nat.Port("4444/tcp")

// ContainerDriver runs a Selenium standalone server in a Docker container.
type ContainerDriver struct {
	RemoteDriver
	// Image to run. Default: DefaultContainerImage
	Image string
	// The host port bound to the server. Default: 0, a free port is picked on Start.
	Port int
	// Extra container environment, e.g. SE_NODE_MAX_SESSIONS=2.
	Env []string
	// Shared memory for the browser. Default: 2GB
	ShmSize int64
	// Start fails if the server doesn't answer /status in less than StartTimeout. Default 60s.
	StartTimeout time.Duration
	// Seconds given to the container to stop before it is killed. Default 10.
	StopTimeout int

	client      *client.Client
	mu          sync.Mutex
	containerID string
}

// NewContainerDriver connects to the Docker daemon configured by the
// environment (DOCKER_HOST, ...).
func NewContainerDriver(img string) (*ContainerDriver, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	if img == "" {
		img = DefaultContainerImage
	}
	return &ContainerDriver{
		RemoteDriver: RemoteDriver{Transport: &HTTPTransport{}},
		Image:        img,
		ShmSize:      2 << 30,
		StartTimeout: 60 * time.Second,
		StopTimeout:  10,
		client:       cli,
	}, nil
}

// EnsureImage pulls the image unless it is already present.
func (d *ContainerDriver) EnsureImage(ctx context.Context) error {
	images, err := d.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == d.Image {
				return nil
			}
		}
	}
	logger.WithField("image", d.Image).Info("pulling image")
	reader, err := d.client.ImagePull(ctx, d.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (d *ContainerDriver) Start() error {
	return d.StartContext(context.Background())
}

func (d *ContainerDriver) StartContext(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.containerID != "" {
		return ErrAlreadyRunning
	}
	if err := d.EnsureImage(ctx); err != nil {
		return err
	}
	if d.Port == 0 {
		port, err := freeport.GetFreePort()
		if err != nil {
			return fmt.Errorf("start failed: no free port: %w", err)
		}
		d.Port = port
	}
	containerConfig := &container.Config{
		Image: d.Image,
		Env:   d.Env,
		Labels: map[string]string{
			"managed-by": "webdriver",
		},
		ExposedPorts: nat.PortSet{seleniumPort: struct{}{}},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			seleniumPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(d.Port)}},
		},
		ShmSize: d.ShmSize,
	}
	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if err := d.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		d.discard(resp.ID)
		return fmt.Errorf("failed to start container: %w", err)
	}
	d.URL = fmt.Sprintf("http://127.0.0.1:%d/wd/hub", d.Port)
	if err := waitForStatus(d.URL, d.StartTimeout); err != nil {
		d.discard(resp.ID)
		return err
	}
	d.containerID = resp.ID
	logger.WithFields(logrus.Fields{"image": d.Image, "port": d.Port, "container": shortID(resp.ID)}).Info("driver started")
	return nil
}

// discard removes a container that failed to start, logging failures.
func (d *ContainerDriver) discard(id string) {
	if err := d.remove(id); err != nil {
		logger.WithField("container", shortID(id)).WithError(err).Warn("failed to remove container")
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func (d *ContainerDriver) remove(id string) error {
	ctx := context.Background()
	timeout := d.StopTimeout
	if err := d.client.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	if err := d.client.ContainerRemove(ctx, id, container.RemoveOptions{}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// ContainerID returns the id of the running container, or "".
func (d *ContainerDriver) ContainerID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.containerID
}

// Stop stops and removes the container.
func (d *ContainerDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.containerID == "" {
		return ErrNotRunning
	}
	id := d.containerID
	d.containerID = ""
	err := d.remove(id)
	logger.WithFields(logrus.Fields{"image": d.Image, "container": shortID(id)}).Info("driver stopped")
	return err
}

// Close releases the Docker client.
func (d *ContainerDriver) Close() error {
	return d.client.Close()
}

var _ WebDriver = (*ContainerDriver)(nil)
