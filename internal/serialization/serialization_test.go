package serialization

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

func newNet(t *testing.T, seed uint64, arch []int, acts []nn.Activation) *nn.Network {
	t.Helper()
	net, err := nn.New(arch, acts)
	require.NoError(t, err)
	net.Randomize(-1, 1, rand.New(rand.NewPCG(seed, seed+1)))
	return net
}

func snapshot(net *nn.Network) [][]float32 {
	var out [][]float32
	net.Params(func(m *matrix.Matrix) {
		for i := 0; i < m.Rows(); i++ {
			out = append(out, append([]float32(nil), m.RowSlice(i)...))
		}
	})
	return out
}

func TestSave_Layout(t *testing.T) {
	net, err := nn.New([]int{1, 1}, nil)
	require.NoError(t, err)
	net.Weight(0).Set(0, 0, 2)
	net.Bias(0).Set(0, 0, 3)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, net))

	want := []byte("nn")
	want = binary.LittleEndian.AppendUint64(want, 2)
	want = binary.LittleEndian.AppendUint64(want, 1)
	want = binary.LittleEndian.AppendUint64(want, 1)
	want = binary.LittleEndian.AppendUint32(want, math.Float32bits(2))
	want = append(want, '\n')
	want = binary.LittleEndian.AppendUint32(want, math.Float32bits(3))
	want = append(want, '\n')
	assert.Equal(t, want, buf.Bytes())
}

func TestRoundTrip(t *testing.T) {
	acts := []nn.Activation{nn.ReLU, nn.Softmax}
	src := newNet(t, 1, []int{3, 5, 2}, acts)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, src))

	dst := newNet(t, 2, []int{3, 5, 2}, acts)
	require.NoError(t, Load(bytes.NewReader(buf.Bytes()), dst))
	assert.Equal(t, snapshot(src), snapshot(dst))

	in, err := matrix.FromSlice(1, 3, []float32{0.5, -1, 2})
	require.NoError(t, err)
	want, err := src.Predict(in)
	require.NoError(t, err)
	got, err := dst.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, want.RowSlice(0), got.RowSlice(0))
}

func TestLoad_ArchMismatchLeavesNetworkUnchanged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, newNet(t, 1, []int{3, 5, 2}, nil)))

	dst := newNet(t, 2, []int{3, 4, 2}, nil)
	before := snapshot(dst)

	err := Load(&buf, dst)
	require.ErrorIs(t, err, ErrArchMismatch)
	var archErr *ArchMismatchError
	require.ErrorAs(t, err, &archErr)
	assert.Equal(t, []int{3, 4, 2}, archErr.Want)
	assert.Equal(t, []int{3, 5, 2}, archErr.Got)
	assert.Equal(t, before, snapshot(dst))
}

func TestLoad_InvalidMagic(t *testing.T) {
	net := newNet(t, 1, []int{1, 1}, nil)
	assert.ErrorIs(t, Load(bytes.NewReader([]byte("xx\x00\x00")), net), ErrInvalidMagic)
	assert.ErrorIs(t, Load(bytes.NewReader([]byte("n")), net), ErrInvalidMagic)
}

func TestLoad_CorruptData(t *testing.T) {
	src := newNet(t, 1, []int{2, 3, 1}, nil)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, src))
	data := buf.Bytes()

	t.Run("truncated", func(t *testing.T) {
		dst := newNet(t, 5, []int{2, 3, 1}, nil)
		before := snapshot(dst)
		err := Load(bytes.NewReader(data[:len(data)-3]), dst)
		assert.ErrorIs(t, err, ErrCorruptData)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, before, snapshot(dst))
	})

	t.Run("missing last separator", func(t *testing.T) {
		dst := newNet(t, 5, []int{2, 3, 1}, nil)
		err := Load(bytes.NewReader(data[:len(data)-1]), dst)
		assert.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("bad separator", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-1] = 'x'
		dst := newNet(t, 5, []int{2, 3, 1}, nil)
		before := snapshot(dst)
		assert.ErrorIs(t, Load(bytes.NewReader(bad), dst), ErrCorruptData)
		assert.Equal(t, before, snapshot(dst))
	})
}

func TestReadArch_Limits(t *testing.T) {
	header := func(widths ...uint64) []byte {
		b := []byte(MagicBytes)
		b = binary.LittleEndian.AppendUint64(b, uint64(len(widths)))
		for _, w := range widths {
			b = binary.LittleEndian.AppendUint64(b, w)
		}
		return b
	}

	arch, err := ReadArch(bytes.NewReader(header(4, 2, 1)))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 1}, arch)

	huge := binary.LittleEndian.AppendUint64([]byte(MagicBytes), 1<<40)
	_, err = ReadArch(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrArchTooLarge)

	_, err = ReadArch(bytes.NewReader(header(4, MaxLayerWidth+1)))
	assert.ErrorIs(t, err, ErrArchTooLarge)

	// Every width is within limits but the weight matrix is not.
	wide := header(MaxLayerWidth, MaxLayerWidth)
	_, err = ReadArch(bytes.NewReader(wide))
	assert.ErrorIs(t, err, ErrArchTooLarge)
	var sizeErr *ValidationError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "too_many_params", sizeErr.Type)
	assert.NotPanics(t, func() {
		net, err := LoadNetwork(bytes.NewReader(wide), nil)
		assert.ErrorIs(t, err, ErrArchTooLarge)
		assert.Nil(t, net)
	})

	_, err = ReadArch(bytes.NewReader(header(1<<13, 1<<13)))
	assert.ErrorIs(t, err, ErrArchTooLarge)
	_, err = ReadArch(bytes.NewReader(header(1<<12, 1<<12)))
	assert.NoError(t, err)

	_, err = ReadArch(bytes.NewReader(header(4, 0, 1)))
	assert.ErrorIs(t, err, ErrCorruptData)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 1, vErr.Layer)

	_, err = ReadArch(bytes.NewReader(header(4)))
	assert.ErrorIs(t, err, ErrCorruptData)

	_, err = ReadArch(bytes.NewReader(header(4, 2)[:14]))
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestSaveFile_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net"+FileExtension)
	src := newNet(t, 1, []int{2, 2, 1}, nil)

	require.NoError(t, SaveFile(path, src))
	assert.ErrorIs(t, SaveFile(path, src), ErrFileExists)

	dst := newNet(t, 3, []int{2, 2, 1}, nil)
	require.NoError(t, LoadFile(path, dst))
	assert.Equal(t, snapshot(src), snapshot(dst))

	loaded, err := LoadNetworkFile(path, []nn.Activation{nn.ReLU, nn.Sigmoid})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, loaded.Arch())
	assert.Equal(t, nn.ReLU, loaded.Activation(0))
	assert.Equal(t, snapshot(src), snapshot(loaded))

	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.netw"), dst))
}
