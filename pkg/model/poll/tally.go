package poll

import (
	"math"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/marshalutil"
)

const (
	// MaxOptionIndex is the highest option index a tally vector can hold.
	// The length of the vector is serialized as uint32.
	MaxOptionIndex = math.MaxUint32 - 1
)

var (
	ErrInvalidTallyVector = errors.New("invalid tally vector")
)

// TallyVector holds the number of votes per option index.
// Its length only grows and is determined by the highest option index ever voted for.
type TallyVector []uint64

// TallyVectorFromBytes parses a serialized TallyVector.
func TallyVectorFromBytes(data []byte) (TallyVector, error) {
	m := marshalutil.New(data)

	length, err := m.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidTallyVector, err.Error())
	}

	if uint64(len(data)-m.ReadOffset()) != uint64(length)*8 {
		return nil, errors.Wrapf(ErrInvalidTallyVector, "length %d does not match %d bytes of counts", length, len(data)-m.ReadOffset())
	}

	tallies := make(TallyVector, length)
	for i := range tallies {
		if tallies[i], err = m.ReadUint64(); err != nil {
			return nil, errors.Wrap(ErrInvalidTallyVector, err.Error())
		}
	}

	return tallies, nil
}

// Bytes serializes the TallyVector: uint32 length followed by one uint64 per option.
func (t TallyVector) Bytes() []byte {
	m := marshalutil.New(4 + 8*len(t))
	m.WriteUint32(uint32(len(t)))
	for _, count := range t {
		m.WriteUint64(count)
	}

	return m.Bytes()
}

// Total returns the sum of all counts.
func (t TallyVector) Total() uint64 {
	var total uint64
	for _, count := range t {
		total += count
	}

	return total
}

// Clone returns a copy of the TallyVector. The copy of an empty vector is empty, never nil.
func (t TallyVector) Clone() TallyVector {
	c := make(TallyVector, len(t))
	copy(c, t)

	return c
}

// grow extends the vector with zero counts until index is valid.
func (t TallyVector) grow(index uint32) TallyVector {
	if uint64(index) < uint64(len(t)) {
		return t
	}

	grown := make(TallyVector, uint64(index)+1)
	copy(grown, t)

	return grown
}

// increment adds one vote at index, growing the vector if needed, and returns the new count.
func (t TallyVector) increment(index uint32) (TallyVector, uint64) {
	grown := t.grow(index)
	grown[index]++

	return grown, grown[index]
}
