package serialization

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// ReadArch reads the magic bytes and the architecture header from r.
func ReadArch(r io.Reader) ([]int, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMagic, err)
	}
	if string(magic) != MagicBytes {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagic, MagicBytes, magic)
	}

	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: architecture length: %w", ErrCorruptData, err)
	}
	if count > MaxArchLen {
		return nil, &ValidationError{
			Type:    "too_many_layers",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, max %d", count, MaxArchLen),
		}
	}

	widths := make([]uint64, count)
	if err := binary.Read(r, binary.LittleEndian, widths); err != nil {
		return nil, fmt.Errorf("%w: architecture: %w", ErrCorruptData, err)
	}
	if err := ValidateArch(widths); err != nil {
		return nil, err
	}

	arch := make([]int, count)
	for i, w := range widths {
		arch[i] = int(w)
	}
	return arch, nil
}

// Load reads a network saved by Save into net.
//
// The stored architecture must equal net's. All parameter data is decoded
// before anything is written, so on error net is left unchanged.
func Load(r io.Reader, net *nn.Network) error {
	br := bufio.NewReader(r)
	arch, err := ReadArch(br)
	if err != nil {
		return err
	}
	if !net.MatchArch(arch) {
		return &ArchMismatchError{Want: net.Arch(), Got: arch}
	}
	return readParams(br, net)
}

// LoadNetwork reads a saved network into a freshly allocated one whose
// architecture comes from the file. activations follows nn.New.
func LoadNetwork(r io.Reader, activations []nn.Activation) (*nn.Network, error) {
	br := bufio.NewReader(r)
	arch, err := ReadArch(br)
	if err != nil {
		return nil, err
	}
	net, err := nn.New(arch, activations)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	if err := readParams(br, net); err != nil {
		return nil, err
	}
	return net, nil
}

// LoadFile opens path and loads it into net.
func LoadFile(path string, net *nn.Network) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Load(file, net)
}

// LoadNetworkFile opens path and loads it with LoadNetwork.
func LoadNetworkFile(path string, activations []nn.Activation) (*nn.Network, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadNetwork(file, activations)
}

// readParams decodes weights and biases in save order into staging buffers
// and copies them into net once everything has been read.
func readParams(r *bufio.Reader, net *nn.Network) error {
	params := make([]*matrix.Matrix, 0, 2*net.Count())
	names := make([]string, 0, 2*net.Count())
	for l := 0; l < net.Count(); l++ {
		params = append(params, net.Weight(l), net.Bias(l))
		names = append(names, fmt.Sprintf("weights[%d]", l), fmt.Sprintf("biases[%d]", l))
	}

	staged := make([][]float32, len(params))
	for k, m := range params {
		data, err := readMatrix(r, m.Rows(), m.Cols())
		if err != nil {
			return fmt.Errorf("%s: %w", names[k], err)
		}
		staged[k] = data
	}

	for k, m := range params {
		cols := m.Cols()
		for i := 0; i < m.Rows(); i++ {
			copy(m.RowSlice(i), staged[k][i*cols:(i+1)*cols])
		}
	}
	return nil
}

func readMatrix(r *bufio.Reader, rows, cols int) ([]float32, error) {
	data := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		if err := binary.Read(r, binary.LittleEndian, data[i*cols:(i+1)*cols]); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCorruptData, i, truncated(err))
		}
		sep, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d separator: %w", ErrCorruptData, i, truncated(err))
		}
		if sep != RowSeparator {
			return nil, fmt.Errorf("%w: row %d: expected separator %q, got %q", ErrCorruptData, i, RowSeparator, sep)
		}
	}
	return data, nil
}

// truncated maps a clean EOF in the middle of the parameter data to
// io.ErrUnexpectedEOF.
func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
