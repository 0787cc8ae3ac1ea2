package detection

import (
	"cmp"
	"fmt"
	"image"
	"iter"
	"slices"

	"github.com/ironsheep/imagetext/internal/imaging"
)

// Order selects how Segment arranges regions.
type Order string

const (
	// OrderReading sorts regions top-to-bottom, then left-to-right.
	OrderReading Order = "reading"

	// OrderDiscovery keeps the raster-scan order in which contours were found.
	OrderDiscovery Order = "discovery"
)

// ParseOrder converts a configuration string to an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderReading, "":
		return OrderReading, nil
	case OrderDiscovery:
		return OrderDiscovery, nil
	default:
		return "", fmt.Errorf("unknown region order %q (want %q or %q)", s, OrderReading, OrderDiscovery)
	}
}

// Options controls Segment.
type Options struct {
	Order   Order
	MinArea int // regions with a smaller bounding box are dropped
}

// Regions returns the bounding boxes of the external contours of mask.
//
// Ink is grouped into 8-connected components. A component is external when it
// borders the outer background, the background 4-connected to the image edge.
// Components sitting inside another component's hole are skipped, so the
// counter of an "O" never becomes a region of its own.
//
// Regions are produced lazily in raster-scan order of each component's first
// pixel. A blank mask yields nothing.
func Regions(mask *imaging.Binary) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		if mask.Width == 0 || mask.Height == 0 {
			return
		}

		outer := outerBackground(mask)
		visited := make([]bool, len(mask.Ink))

		for y := 0; y < mask.Height; y++ {
			for x := 0; x < mask.Width; x++ {
				i := y*mask.Width + x
				if !mask.Ink[i] || visited[i] {
					continue
				}
				region, external := traceComponent(mask, outer, visited, x, y)
				if !external {
					continue
				}
				if !yield(region) {
					return
				}
			}
		}
	}
}

// Segment collects the external regions of a dilated mask, filters them by
// area and orders them.
func Segment(mask *imaging.Binary, opts Options) []Region {
	regions := make([]Region, 0)
	for r := range Regions(mask) {
		if r.Area() < opts.MinArea {
			continue
		}
		regions = append(regions, r)
	}

	if opts.Order != OrderDiscovery {
		SortReading(regions)
	}
	return regions
}

// SortReading orders regions by top edge, then left edge.
func SortReading(regions []Region) {
	slices.SortStableFunc(regions, func(a, b Region) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
}

// outerBackground marks every background pixel reachable from the image edge
// through 4-connected background.
func outerBackground(mask *imaging.Binary) []bool {
	w, h := mask.Width, mask.Height
	outer := make([]bool, len(mask.Ink))
	stack := make([]image.Point, 0, 2*(w+h))

	push := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		i := y*w + x
		if mask.Ink[i] || outer[i] {
			return
		}
		outer[i] = true
		stack = append(stack, image.Pt(x, y))
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outer
}

// traceComponent flood-fills the 8-connected ink component containing
// (startX, startY), returning its bounding box and whether it touches the
// image edge or the outer background.
func traceComponent(mask *imaging.Binary, outer, visited []bool, startX, startY int) (Region, bool) {
	w, h := mask.Width, mask.Height
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	external := false

	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY*w+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
			external = true
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				i := ny*w + nx
				if !mask.Ink[i] {
					// 4-neighbours decide whether this is the outer boundary.
					if (dx == 0 || dy == 0) && outer[i] {
						external = true
					}
					continue
				}
				if visited[i] {
					continue
				}
				visited[i] = true
				stack = append(stack, image.Pt(nx, ny))
			}
		}
	}

	return Region{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}, external
}
