// Package thumbnail rasterizes a preview image for exported snapshots
// carrying asset payloads, adapted from the board server's
// asset_service.go image pipeline (§4.Q). The gateway invokes it only
// for `bytes` primitives in a document's "assets" array whose leading
// bytes sniff as an image (§3 supplement).
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Registered so image.Decode recognizes these formats; never called
	// directly.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"
)

// RenderThumbnail decodes imgBytes, resizes to fit within
// maxWidth x maxHeight preserving aspect ratio, and re-encodes as PNG.
func RenderThumbnail(imgBytes []byte, maxWidth, maxHeight uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
