// Package capture provides exclusive camera ownership using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 30
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Status describes the camera as seen by callers of the recognition manager.
type Status struct {
	Connected bool `json:"connected"`
	DeviceID  int  `json:"device_id"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	TargetFPS int  `json:"target_fps"`
}

// Camera defines the frame-source contract consumed by the dispatch loop.
// ReadFrame is best effort: a transient failure returns an error and the
// caller skips the iteration.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
	Status() Status
}

// cameraImpl manages video capture from a single device using GoCV.
// It is the one exclusively owned frame producer in the process.
type cameraImpl struct {
	deviceID int
	width    int
	height   int
	fps      int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewCamera creates a Camera for the given device with the requested
// resolution and target frame rate. Non-positive values fall back to defaults.
func NewCamera(deviceID, width, height, fps int) Camera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &cameraImpl{
		deviceID: deviceID,
		width:    width,
		height:   height,
		fps:      fps,
	}
}

// Open opens the camera device. Calling Open on an already open camera is a
// no-op so ownership stays with the first opener.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Close releases the device. Safe to call repeatedly.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen returns true if the camera device is currently held open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Status reports the configured geometry and connection state.
func (c *cameraImpl) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Connected: c.running,
		DeviceID:  c.deviceID,
		Width:     c.width,
		Height:    c.height,
		TargetFPS: c.fps,
	}
}
