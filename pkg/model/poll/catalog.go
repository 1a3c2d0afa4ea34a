package poll

import (
	"math"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/marshalutil"
)

const (
	// OptionLabelMaxLength is the maximum length of a label in bytes.
	OptionLabelMaxLength = 255
	// OptionsMaxCount is the maximum number of options of a poll.
	OptionsMaxCount = math.MaxUint16
)

var (
	ErrInvalidOptionCatalog = errors.New("invalid option catalog")
	ErrOptionLabelTooLong   = errors.New("option label too long")
	ErrTooManyOptions       = errors.New("too many options")
)

// OptionCatalog holds the labels of the options of a poll.
// Labels are not required to be unique.
type OptionCatalog []string

// OptionCatalogFromBytes parses a serialized OptionCatalog.
func OptionCatalogFromBytes(data []byte) (OptionCatalog, error) {
	m := marshalutil.New(data)

	count, err := m.ReadUint16()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidOptionCatalog, err.Error())
	}

	catalog := make(OptionCatalog, count)
	for i := range catalog {
		labelLength, err := m.ReadUint16()
		if err != nil {
			return nil, errors.Wrap(ErrInvalidOptionCatalog, err.Error())
		}

		label, err := m.ReadBytes(int(labelLength))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidOptionCatalog, err.Error())
		}
		catalog[i] = string(label)
	}

	if m.ReadOffset() != len(data) {
		return nil, errors.Wrapf(ErrInvalidOptionCatalog, "%d trailing bytes", len(data)-m.ReadOffset())
	}

	return catalog, nil
}

// Validate checks the limits of the serialization format.
func (c OptionCatalog) Validate() error {
	if len(c) > OptionsMaxCount {
		return errors.Wrapf(ErrTooManyOptions, "%d options, max %d", len(c), OptionsMaxCount)
	}

	for i, label := range c {
		if len(label) > OptionLabelMaxLength {
			return errors.Wrapf(ErrOptionLabelTooLong, "option %d has %d bytes, max %d", i, len(label), OptionLabelMaxLength)
		}
	}

	return nil
}

// Bytes serializes the OptionCatalog: uint16 count followed by uint16 length prefixed labels.
func (c OptionCatalog) Bytes() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	size := 2
	for _, label := range c {
		size += 2 + len(label)
	}

	m := marshalutil.New(size)
	m.WriteUint16(uint16(len(c)))
	for _, label := range c {
		m.WriteUint16(uint16(len(label)))
		m.WriteBytes([]byte(label))
	}

	return m.Bytes(), nil
}

// Clone returns a copy of the OptionCatalog.
func (c OptionCatalog) Clone() OptionCatalog {
	cpy := make(OptionCatalog, len(c))
	copy(cpy, c)

	return cpy
}
