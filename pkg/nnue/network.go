package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fixed"
	"github.com/kestrelchess/kestrel/pkg/tensor"
)

// accValue is the accumulator's per-lane fixed-point format: a 32-bit raw value with an
// 8-bit scale-shift, wide enough that no realistic sequence of incremental updates
// overflows it, and wrapping on the rare occasion one does.
type accValue = fixed.Fixed[int32, fixed.Q32S8]

// accWeight is the first layer's weight format: one signed byte per (feature, lane)
// pair, shift 7 (values in [-1, 1)).
type accWeight = fixed.Fixed[int8, fixed.Q8S7]

// accWeightBlock groups this many consecutive feature rows together in AccWeights'
// backing storage: within a block, the weights of its rows for one lane sit next to each
// other, so one feature's row across all 128 lanes is read at a stride of accWeightBlock
// inside its block's span of memory.
const accWeightBlock = 16

// OutputScale converts the network's final unscaled output into centipawns.
const OutputScale = 400

// Network holds the weights for a flat-feature NNUE: a 768 (own+opponent, 384 each) x
// 128 BlockTransposed first layer feeding a 256-wide concatenation of both
// perspectives' ReLU'd accumulators into two small float32 dense layers.
type Network struct {
	AccWeights *tensor.BlockTransposed[int8]
	AccBias    [AccSize]accValue

	Hidden *tensor.Affine[float32] // ConcatAccSize -> HiddenSize
	Output *tensor.Affine[float32] // HiddenSize -> 1
}

// NewNetwork allocates a zero-valued network; callers must either LoadWeights or
// InitRandom before evaluating with it.
func NewNetwork() *Network {
	return &Network{
		AccWeights: tensor.NewBlockTransposed[int8](AccInputSize, AccSize, accWeightBlock),
		Hidden:     tensor.NewAffine[float32](ConcatAccSize, HiddenSize),
		Output:     tensor.NewAffine[float32](HiddenSize, 1),
	}
}

// addFeatureRow adds (sign=+1) or removes (sign=-1) the accumulator-weight row for
// feature idx into acc, converting each int8 weight into the accumulator's wider
// fixed-point format before the (wrapping) add.
func (n *Network) addFeatureRow(acc *[AccSize]accValue, idx int, sign int32) {
	for j := 0; j < AccSize; j++ {
		w := accWeight{Raw: n.AccWeights.At(idx, j)}
		delta := fixed.Rescale[int8, int32, fixed.Q8S7, fixed.Q32S8](w)
		if sign < 0 {
			acc[j] = acc[j].Sub(delta)
		} else {
			acc[j] = acc[j].Add(delta)
		}
	}
}

// Forward runs the network's forward pass given both perspectives' accumulated
// activations: the side to move's lanes are concatenated first, then ReLU'd into
// float32, through the hidden and output layers, scaled to centipawns and clamped clear
// of the mate-score band.
func (n *Network) Forward(white, black *[AccSize]accValue, sideToMove board.Color) board.Score {
	stm, nstm := white, black
	if sideToMove == board.Black {
		stm, nstm = black, white
	}

	var concat [ConcatAccSize]float32
	for i := 0; i < AccSize; i++ {
		concat[i] = float32(fixed.ReLU(stm[i]).Float64())
		concat[AccSize+i] = float32(fixed.ReLU(nstm[i]).Float64())
	}

	var hidden [HiddenSize]float32
	n.Hidden.Propagate(concat[:], hidden[:])
	tensor.ReLU(hidden[:])

	var out [1]float32
	n.Output.Propagate(hidden[:], out[:])

	cp := int32(out[0] * OutputScale)
	const limit = int32(board.MateMin) - 1
	if cp > limit {
		cp = limit
	}
	if cp < -limit {
		cp = -limit
	}
	return board.Score(cp)
}

// InitRandom seeds the network with small pseudo-random weights, for use before a
// trained weight file is available (e.g. in tests).
func (n *Network) InitRandom(seed int64) {
	r := rand.New(rand.NewSource(seed))

	smallByte := func(bound int) int8 { return int8(r.Intn(2*bound+1) - bound) }
	smallFloat := func(scale float32) float32 { return (r.Float32()*2 - 1) * scale }

	for i := 0; i < AccInputSize; i++ {
		for j := 0; j < AccSize; j++ {
			n.AccWeights.Set(i, j, smallByte(16))
		}
	}
	for i := range n.AccBias {
		n.AccBias[i] = fixed.FromFloat64[int32, fixed.Q32S8](float64(smallFloat(0.5)))
	}
	for i := range n.Hidden.Weights {
		for j := range n.Hidden.Weights[i] {
			n.Hidden.Weights[i][j] = smallFloat(0.25)
		}
	}
	for i := range n.Hidden.Bias {
		n.Hidden.Bias[i] = smallFloat(0.1)
	}
	for i := range n.Output.Weights {
		for j := range n.Output.Weights[i] {
			n.Output.Weights[i][j] = smallFloat(0.25)
		}
	}
	n.Output.Bias[0] = smallFloat(0.1)
}

// weightFileMagic identifies a kestrel NNUE weight file.
const weightFileMagic = 0x4b53544c // "KSTL"

type weightFileHeader struct {
	Magic      uint32
	AccInput   uint32
	AccSize    uint32
	HiddenSize uint32
}

// LoadWeights reads a trained network from filename. See SaveWeights for the format.
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("nnue: open weights: %w", err)
	}
	defer f.Close()

	var header weightFileHeader
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("nnue: read header: %w", err)
	}
	if header.Magic != weightFileMagic {
		return fmt.Errorf("nnue: bad magic %x", header.Magic)
	}
	if int(header.AccInput) != AccInputSize || int(header.AccSize) != AccSize || int(header.HiddenSize) != HiddenSize {
		return fmt.Errorf("nnue: dimension mismatch: file has in=%d acc=%d hidden=%d, network wants in=%d acc=%d hidden=%d",
			header.AccInput, header.AccSize, header.HiddenSize, AccInputSize, AccSize, HiddenSize)
	}

	read := func(data any) error { return binary.Read(f, binary.LittleEndian, data) }

	for i := 0; i < AccInputSize; i++ {
		row := make([]int8, AccSize)
		if err := read(row); err != nil {
			return fmt.Errorf("nnue: read accumulator weights at %d: %w", i, err)
		}
		for j, w := range row {
			n.AccWeights.Set(i, j, w)
		}
	}
	for i := range n.AccBias {
		var raw int32
		if err := read(&raw); err != nil {
			return fmt.Errorf("nnue: read accumulator bias: %w", err)
		}
		n.AccBias[i] = accValue{Raw: raw}
	}
	for i := range n.Hidden.Weights {
		if err := read(n.Hidden.Weights[i]); err != nil {
			return fmt.Errorf("nnue: read hidden weights at %d: %w", i, err)
		}
	}
	if err := read(n.Hidden.Bias); err != nil {
		return fmt.Errorf("nnue: read hidden bias: %w", err)
	}
	for i := range n.Output.Weights {
		if err := read(n.Output.Weights[i]); err != nil {
			return fmt.Errorf("nnue: read output weights at %d: %w", i, err)
		}
	}
	return read(n.Output.Bias)
}

// SaveWeights writes the network in the format LoadWeights expects. Mostly useful for
// tests and for round-tripping InitRandom networks; real weights come from offline
// training, out of scope here.
func (n *Network) SaveWeights(w io.Writer) error {
	header := weightFileHeader{Magic: weightFileMagic, AccInput: uint32(AccInputSize), AccSize: uint32(AccSize), HiddenSize: uint32(HiddenSize)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	for i := 0; i < AccInputSize; i++ {
		row := make([]int8, AccSize)
		for j := range row {
			row[j] = n.AccWeights.At(i, j)
		}
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	for _, b := range n.AccBias {
		if err := binary.Write(w, binary.LittleEndian, b.Raw); err != nil {
			return err
		}
	}
	for i := range n.Hidden.Weights {
		if err := binary.Write(w, binary.LittleEndian, n.Hidden.Weights[i]); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, n.Hidden.Bias); err != nil {
		return err
	}
	for i := range n.Output.Weights {
		if err := binary.Write(w, binary.LittleEndian, n.Output.Weights[i]); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, n.Output.Bias)
}
