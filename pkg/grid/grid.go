// Package grid plans the crop rectangles of an N×N grid.
package grid

import "github.com/menta2k/image-slicer/pkg/types"

// Plan returns the n*n cells of a width×height image in row-major order.
// Cell size is width/n by height/n (floor); the right and bottom remainder
// pixels are not covered by any cell.
func Plan(width, height, n int) ([]types.GridCell, error) {
	if n <= 0 || width <= 0 || height <= 0 {
		return nil, types.InvalidArgument("Image is too small for grid size")
	}

	cellWidth := width / n
	cellHeight := height / n
	if cellWidth == 0 || cellHeight == 0 {
		return nil, types.InvalidArgument("Image is too small for grid size")
	}

	cells := make([]types.GridCell, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells = append(cells, types.GridCell{
				Row:    row,
				Col:    col,
				Left:   col * cellWidth,
				Top:    row * cellHeight,
				Width:  cellWidth,
				Height: cellHeight,
			})
		}
	}
	return cells, nil
}
