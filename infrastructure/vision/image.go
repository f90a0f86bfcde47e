package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FaceSize is the fixed edge length every face crop is normalized to before
// training and prediction.
const FaceSize = 200

// ReadGrayscale loads an image file directly as a single-channel greyscale Mat.
func ReadGrayscale(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return img, fmt.Errorf("could not load image: %s", path)
	}
	return img, nil
}

// ToGrayscale converts a BGR frame to greyscale.
func ToGrayscale(frame gocv.Mat, gray *gocv.Mat) {
	gocv.CvtColor(frame, gray, gocv.ColorBGRToGray)
}

// NormalizeFace crops rect out of the greyscale image and resizes the crop to
// FaceSize x FaceSize. The caller owns the returned Mat.
func NormalizeFace(gray gocv.Mat, rect image.Rectangle) gocv.Mat {
	region := gray.Region(rect)
	defer region.Close()

	face := gocv.NewMat()
	gocv.Resize(region, &face, image.Pt(FaceSize, FaceSize), 0, 0, gocv.InterpolationLinear)
	return face
}
