package vision

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	domainservices "face-attendance/domain/services"
)

// FaceDetector returns candidate face rectangles in a greyscale image.
type FaceDetector interface {
	Detect(gray gocv.Mat) []image.Rectangle
	Close() error
}

// CascadeDetector is a Haar cascade face detector.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
}

func NewCascadeDetector(cascadePath string) (*CascadeDetector, error) {
	if _, err := os.Stat(cascadePath); err != nil {
		return nil, fmt.Errorf("%w: %s", domainservices.ErrDetectorUnavailable, cascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", domainservices.ErrDetectorUnavailable, cascadePath)
	}

	return &CascadeDetector{classifier: classifier}, nil
}

func (d *CascadeDetector) Detect(gray gocv.Mat) []image.Rectangle {
	return d.classifier.DetectMultiScale(gray)
}

func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}

// LargestFace picks the face rectangle with the largest area. Ties keep the
// first returned rectangle.
func LargestFace(rects []image.Rectangle) (image.Rectangle, bool) {
	if len(rects) == 0 {
		return image.Rectangle{}, false
	}

	largest := rects[0]
	maxArea := largest.Dx() * largest.Dy()
	for _, r := range rects[1:] {
		if area := r.Dx() * r.Dy(); area > maxArea {
			maxArea = area
			largest = r
		}
	}
	return largest, true
}
