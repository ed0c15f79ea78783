//go:build !linux

package main

import (
	"fmt"
	"runtime"

	"github.com/muurk/scancam/internal/camera"
)

func openV4L2(path string) (camera.Device, func() error, error) {
	return nil, nil, fmt.Errorf("cannot open %s: V4L2 devices are not supported on %s", path, runtime.GOOS)
}
