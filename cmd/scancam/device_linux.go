//go:build linux

package main

import (
	"github.com/muurk/scancam/internal/camera"
	"github.com/muurk/scancam/internal/device/v4l2"
	"github.com/muurk/scancam/internal/logging"
)

func openV4L2(path string) (camera.Device, func() error, error) {
	dev, err := v4l2.Open(path, &v4l2.Options{Logger: logging.Named("v4l2")})
	if err != nil {
		return nil, nil, err
	}
	return dev, dev.Close, nil
}
