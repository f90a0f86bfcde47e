package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	domainservices "face-attendance/domain/services"
)

// FrameSource produces video frames. Grab returns false when no frame is
// available; callers decide whether to retry or give up.
type FrameSource interface {
	Grab(dst *gocv.Mat) bool
	Close() error
}

// CameraSource reads frames from a local video capture device. The device is
// held exclusively until Close.
type CameraSource struct {
	capture *gocv.VideoCapture
}

func OpenCamera(device int) (*CameraSource, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", domainservices.ErrCameraUnavailable, device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %d", domainservices.ErrCameraUnavailable, device)
	}

	return &CameraSource{capture: capture}, nil
}

func (c *CameraSource) Grab(dst *gocv.Mat) bool {
	if !c.capture.Read(dst) {
		return false
	}
	return !dst.Empty()
}

func (c *CameraSource) Close() error {
	return c.capture.Close()
}
