// Package imaging inspects the capture artifact and prepares it for OCR.
//
// Tesseract reads clean, dark-on-light text at a reasonable size best. Screen
// captures are often the opposite: small UI fonts, dark themes and colored
// backgrounds. Enhance applies a fixed sequence of corrections:
//
//  1. Grayscale conversion
//  2. Upscaling with Lanczos resampling when the capture is shorter than
//     MinHeight pixels
//  3. Inversion when the mean CIE L* lightness is below 50%, turning
//     light-on-dark themes into dark-on-light text
//  4. Optional binarization at a fixed threshold
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// All functions are stateless and can be called concurrently on different
// images. Input images are never modified; each step returns a new image.
//
// # Error Handling
//
// Functions return errors for files that cannot be opened or decoded and for
// encoding failures. Callers in the pipeline treat every error here as a
// reason to fall back to the unprocessed artifact, never as fatal.
package imaging
