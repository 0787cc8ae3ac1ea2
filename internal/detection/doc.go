// Package detection finds candidate text regions in a binary ink mask.
//
// Segmentation runs in two steps:
//
//  1. Dilate grows ink with a rectangular structuring element so that the
//     glyphs of a word (or line) fuse into one connected blob. The kernel size
//     is the main tuning knob: too large merges unrelated blocks, too small
//     leaves words split into letters.
//  2. Regions walks the dilated mask and reports the bounding box of every
//     external contour. Blobs nested inside another blob's hole are ignored.
//
// Segment wraps Regions with area filtering and ordering. The raw discovery
// order is a raster scan of each blob's first pixel, which is not reading
// order for blobs of different heights on one line; OrderReading sorts by
// (y, x) instead.
//
// # Coordinate System
//
// Regions use 0-based image coordinates with the origin at the top-left
// corner. X and Y are inclusive, Width and Height are in pixels.
//
// # Limitations
//
// Only axis-aligned boxes are produced. Rotated or skewed text yields loose
// boxes and touching lines of text can merge into a single region.
package detection
