package serialization

import "fmt"

// ValidateArch checks an architecture read from a file against the format
// limits. It does not compare it with any network.
func ValidateArch(arch []uint64) error {
	if len(arch) > MaxArchLen {
		return &ValidationError{
			Type:    "too_many_layers",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, max %d", len(arch), MaxArchLen),
		}
	}
	if len(arch) < 2 {
		return &ValidationError{
			Type:    "too_few_layers",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, need at least 2", len(arch)),
		}
	}
	for i, w := range arch {
		if w == 0 {
			return &ValidationError{Type: "zero_width", Layer: i, Details: "layer width must be positive"}
		}
		if w > MaxLayerWidth {
			return &ValidationError{
				Type:    "layer_too_wide",
				Layer:   i,
				Details: fmt.Sprintf("got %d, max %d", w, MaxLayerWidth),
			}
		}
	}

	// Widths are at most MaxLayerWidth here, so no term overflows.
	var total uint64
	for i := 0; i+1 < len(arch); i++ {
		total += arch[i]*arch[i+1] + arch[i+1]
		if total > MaxParams {
			return &ValidationError{
				Type:    "too_many_params",
				Layer:   i,
				Details: fmt.Sprintf("more than %d parameters up to transition %d", MaxParams, i),
			}
		}
	}
	return nil
}
