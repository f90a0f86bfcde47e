package vision

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	domainservices "face-attendance/domain/services"
)

// Prediction is one classifier answer. Distance is the LBPH metric: smaller
// means a better match.
type Prediction struct {
	Label    int
	Distance float64
}

// FaceRecognizer predicts the label of a normalized greyscale face crop.
type FaceRecognizer interface {
	Predict(face gocv.Mat) Prediction
	Close() error
}

// LBPHRecognizer wraps the OpenCV contrib LBPH face recognizer.
type LBPHRecognizer struct {
	rec *contrib.LBPHFaceRecognizer
}

// NewLBPHRecognizer creates an untrained recognizer for a training run.
func NewLBPHRecognizer() *LBPHRecognizer {
	return &LBPHRecognizer{rec: contrib.NewLBPHFaceRecognizer()}
}

// LoadLBPHRecognizer reads a trained model artifact from disk.
func LoadLBPHRecognizer(modelPath string) (*LBPHRecognizer, error) {
	info, err := os.Stat(modelPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domainservices.ErrModelLoad, modelPath)
	}

	r := &LBPHRecognizer{rec: contrib.NewLBPHFaceRecognizer()}
	r.rec.LoadFile(modelPath)
	return r, nil
}

// Train fits the recognizer over (crop, label) pairs.
func (r *LBPHRecognizer) Train(images []gocv.Mat, labels []int) {
	r.rec.Train(images, labels)
}

// Save persists the model artifact to path.
func (r *LBPHRecognizer) Save(path string) {
	r.rec.SaveFile(path)
}

func (r *LBPHRecognizer) Predict(face gocv.Mat) Prediction {
	resp := r.rec.PredictExtendedResponse(face)
	return Prediction{
		Label:    int(resp.Label),
		Distance: float64(resp.Confidence),
	}
}

func (r *LBPHRecognizer) Close() error {
	return r.rec.Close()
}
