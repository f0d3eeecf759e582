package metadata

import "github.com/menta2k/image-slicer/pkg/types"

// Assemble merges the codec's image info with the grid size, the applied
// enhancement and the final segment size. Codec fields are copied as is.
func Assemble(info types.ImageInfo, gridSize int, enhancement types.Enhancement, segment types.Dimensions) types.Metadata {
	return types.Metadata{
		ImageInfo:         info,
		GridSize:          gridSize,
		Enhancement:       enhancement,
		SegmentDimensions: segment,
	}
}
