// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "image"

// PixmapTarget is the output frame of a Renderer: an RGBA image the size of
// the final picture. The renderer overwrites every pixel on each call, so a
// target can be reused across simulation frames.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a width x height frame.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the frame width in pixels.
func (t *PixmapTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the frame height in pixels.
func (t *PixmapTarget) Height() int { return t.img.Bounds().Dy() }

// Image returns the frame. It shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }
