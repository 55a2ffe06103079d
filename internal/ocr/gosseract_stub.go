//go:build !gosseract || !cgo

package ocr

import "errors"

func newLibraryRecognizer() (Recognizer, error) {
	return nil, errors.New("gosseract backend not compiled in (rebuild with -tags gosseract and CGO_ENABLED=1)")
}
