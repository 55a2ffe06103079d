//go:build gosseract && cgo

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract recognizes text in-process through the Tesseract C API.
//
// It avoids one process spawn per capture but links libtesseract into the
// binary, so it is only compiled with the gosseract build tag. Language
// discovery still goes through the tesseract CLI.
type Gosseract struct{}

func newLibraryRecognizer() (Recognizer, error) {
	return Gosseract{}, nil
}

// Recognize implements Recognizer. The C call cannot be interrupted, so ctx
// is only checked before it starts.
func (Gosseract) Recognize(ctx context.Context, in Input, langs LanguageSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(langs.Codes()...); err != nil {
		return "", fmt.Errorf("%w: failed to set language: %v", ErrOCRFailed, err)
	}

	var err error
	switch {
	case len(in.PNG) > 0:
		err = client.SetImageFromBytes(in.PNG)
	case in.Path != "":
		err = client.SetImage(in.Path)
	default:
		return "", fmt.Errorf("%w: no input image", ErrOCRFailed)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to set image: %v", ErrOCRFailed, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	return strings.TrimSpace(text), nil
}
