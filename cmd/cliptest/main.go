//go:build ignore

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/rfenwick/vaultclip/internal/clipboard"
)

// Manual clipboard check: writes a small test PNG and leaves it on the
// clipboard for pasting into another application.
func main() {
	fmt.Println("Testing clipboard write...")

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		fmt.Printf("Error encoding: %v\n", err)
		return
	}

	if err := clipboard.Init(); err != nil {
		fmt.Printf("Error initializing clipboard: %v\n", err)
		return
	}
	if err := clipboard.WriteImage(buf.Bytes()); err != nil {
		fmt.Printf("Error writing: %v\n", err)
		return
	}
	fmt.Printf("Wrote %d-byte PNG (32x32 gradient). Paste into an image editor to verify.\n", buf.Len())
}
