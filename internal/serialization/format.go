package serialization

// Format constants.
const (
	MagicBytes    = "nn"    // File header
	FileExtension = ".netw" // Conventional extension for saved networks
	RowSeparator  = '\n'    // Written after every matrix row
)

// Limits applied when reading an architecture, so that a corrupt or foreign
// file cannot trigger huge allocations.
const (
	MaxArchLen    = 1 << 12 // Maximum number of layers
	MaxLayerWidth = 1 << 24 // Maximum width of a single layer
	MaxParams     = 1 << 26 // Maximum number of weights and biases in total
)
