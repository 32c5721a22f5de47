package coastline

// A coastline file holds one source type (a WVS scale or a WDB feature class)
// for the whole world, tiled in one degree cells.
//
// .        | version preamble | cell index              | data blocks ...
// .        | 0            127 | 128 .. 128+180*360*12-1 |
//
// The preamble is NUL padded ASCII and records the byte order of the index
// (see endian.FromPreamble). Each index record is three 32 bit integers
//
// .        | data address | segment count | vertex count |
// .        | 0          3 | 4           7 | 8          11 |
//
// in cell order, west to east within a latitude row and rows south to north.
// A data address of zero is an empty cell.
//
// A data block is the cell's segments back to back, each starting on a byte
// boundary and bit packed most significant bit first:
//
// .   | count bits | lon bits | lat bits | count | lon bias | lat bias | start lon | start lat | deltas
// .   |     5      |    5     |    5     |  cb   |    18    |    18    |    26     |    25     | (count-1)*(lb+tb)
//
// Coordinates are held as integers in units of 1/100000 degree, longitude
// offset by 180 and latitude by 90 so both are non negative. Each vertex after
// the first adds an unsigned delta minus the bias to the previous vertex; the
// deltas of a vertex are stored longitude first.
import (
	"fmt"

	"github.com/forestrie/go-geodata/bitpack"
	"github.com/forestrie/go-geodata/geocell"
)

const (
	PreambleSize         = 128
	IndexRecordSize      = 12
	IndexStart           = PreambleSize
	IndexEnd             = IndexStart + geocell.Cells*IndexRecordSize
	DataAddressFirstByte = 0
	SegmentsFirstByte    = 4
	VerticesFirstByte    = 8

	// CoordScale is the number of stored units per degree.
	CoordScale = 100000

	WidthFieldBits = 5
	BiasFieldBits  = 18
	StartLonBits   = 26
	StartLatBits   = 25

	// BiasOffset keeps the stored bias non negative.
	BiasOffset = 131071

	// FixedSegmentBits is every field of a segment record except the count and
	// the deltas.
	FixedSegmentBits = 3*WidthFieldBits + 2*BiasFieldBits + StartLonBits + StartLatBits

	// MaxSegmentVertices bounds the vertex buffer a single record may ask for.
	MaxSegmentVertices = 1 << 22
)

// BiasField is the codec for the stored lon and lat delta biases.
var BiasField = bitpack.Field{Width: BiasFieldBits, Bias: BiasOffset}

// Kind is a coastline source type. Each kind is stored in its own file.
type Kind uint8

const (
	WVSFull Kind = iota
	WVS250k
	WVS1M
	WVS3M
	WVS12M
	WVS43M
	WDBCoasts
	WDBRivers
	WDBBorders
	kindCount
)

var kindNames = [kindCount]string{
	"wvs_full", "wvs_250k", "wvs_1m", "wvs_3m", "wvs_12m", "wvs_43m",
	"wdb_coasts", "wdb_rivers", "wdb_borders",
}

var kindFiles = [kindCount]string{
	"wvsfull.ihc", "wvs250k.ihc", "wvs1.ihc", "wvs3.ihc", "wvs12.ihc", "wvs43.ihc",
	"wdb_coasts.ihc", "wdb_rivers.ihc", "wdb_borders.ihc",
}

// Kinds lists every source type.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("coastline.Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// FileName is the name of the file holding k under the coastline directory.
func (k Kind) FileName() string {
	if !k.Valid() {
		return ""
	}
	return kindFiles[k]
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IndexOffset is the file offset of the index record for c.
func IndexOffset(c geocell.Cell) int64 {
	return IndexStart + int64(c.Index())*IndexRecordSize
}

// SegmentBits is the exact size in bits of a packed segment record.
func SegmentBits(countBits, lonBits, latBits uint, count uint32) uint64 {
	return FixedSegmentBits + uint64(countBits) + uint64(count-1)*uint64(lonBits+latBits)
}
