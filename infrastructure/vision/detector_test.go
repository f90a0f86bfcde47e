package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"face-attendance/domain/services"
)

func TestLargestFace(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(0, 0, 50, 40),
		image.Rect(5, 5, 25, 25),
	}

	largest, ok := LargestFace(rects)
	assert.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 50, 40), largest)
}

func TestLargestFaceTieKeepsFirst(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(0, 0, 20, 20),
		image.Rect(10, 10, 30, 30),
	}

	largest, ok := LargestFace(rects)
	assert.True(t, ok)
	assert.Equal(t, rects[0], largest)
}

func TestLargestFaceEmpty(t *testing.T) {
	_, ok := LargestFace(nil)
	assert.False(t, ok)
}

func TestCascadeDetectorMissingFile(t *testing.T) {
	_, err := NewCascadeDetector("/nonexistent/cascade.xml")
	assert.ErrorIs(t, err, services.ErrDetectorUnavailable)
}
