package serialization

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// Save writes net to w: magic, architecture, then every weight and bias
// matrix in transition order, one separator-terminated row at a time.
func Save(w io.Writer, net *nn.Network) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}

	arch := net.Arch()
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(arch))); err != nil {
		return fmt.Errorf("failed to write architecture length: %w", err)
	}
	for i, width := range arch {
		if err := binary.Write(bw, binary.LittleEndian, uint64(width)); err != nil {
			return fmt.Errorf("failed to write width of layer %d: %w", i, err)
		}
	}

	for l := 0; l < net.Count(); l++ {
		if err := writeMatrix(bw, net.Weight(l)); err != nil {
			return fmt.Errorf("failed to write weights[%d]: %w", l, err)
		}
		if err := writeMatrix(bw, net.Bias(l)); err != nil {
			return fmt.Errorf("failed to write biases[%d]: %w", l, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// SaveFile writes net to a new file at path. It refuses to replace an
// existing file and returns ErrFileExists instead.
func SaveFile(path string, net *nn.Network) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Save(file, net); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func writeMatrix(w *bufio.Writer, m *matrix.Matrix) error {
	for i := 0; i < m.Rows(); i++ {
		if err := binary.Write(w, binary.LittleEndian, m.RowSlice(i)); err != nil {
			return err
		}
		if err := w.WriteByte(RowSeparator); err != nil {
			return err
		}
	}
	return nil
}
