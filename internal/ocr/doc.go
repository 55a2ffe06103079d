// Package ocr provides Optical Character Recognition (OCR) functionality using Tesseract.
//
// This package discovers the installed Tesseract language packs and extracts
// text from the capture artifact. Two backends implement Recognizer:
//
//   - Tesseract: runs the tesseract binary and reads text from its stdout.
//     This is the default and needs nothing beyond the tesseract package.
//   - Gosseract: calls libtesseract in-process through gosseract/v2. It is
//     only compiled with `-tags gosseract` and CGO enabled.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - Arch: pacman -S tesseract tesseract-data-eng
//   - Fedora: dnf install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-<lang>
//
// # Languages
//
// Discover runs `tesseract --list-langs` and combines every installed pack
// into one "-l" argument joined with "+", e.g. "eng+deu+chi_sim". The "osd"
// pack (orientation and script detection) is never included. When listing
// fails or finds nothing usable, the configured fallback ("eng" by default)
// is used instead; discovery degrades, it never fails.
//
// # Error Handling
//
// Recognize returns errors wrapping ErrOCRFailed when tesseract cannot be
// executed, exits non-zero, or prints output that is not UTF-8. A successful
// run that finds no text returns an empty string and a nil error, so callers
// can tell "nothing on screen" apart from "recognition broke".
package ocr
