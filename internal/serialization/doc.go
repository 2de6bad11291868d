// Package serialization saves and loads nn.Network parameters in a compact
// binary format.
//
//	Format Structure:
//	  [2 bytes: Magic "nn"]
//	  [8 bytes: Layer count n (uint64 LE)]
//	  [n × 8 bytes: Layer widths (uint64 LE)]
//	  For each transition i:
//	    weights[i]: for each row, cols × float32 LE followed by '\n'
//	    biases[i]:  one row of cols × float32 LE followed by '\n'
//
// Activations are not stored. A file can only be loaded into a network with
// the same architecture, or through LoadNetwork which allocates one.
//
// Example usage:
//
//	// Save a network
//	if err := serialization.SaveFile("xor"+serialization.FileExtension, net); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load into a network of the same shape
//	if err := serialization.LoadFile("xor.netw", net); err != nil {
//	    log.Fatal(err)
//	}
package serialization
