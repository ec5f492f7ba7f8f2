package index

import (
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"go.uber.org/multierr"
)

// Metadata is a key/value pair attached to the book or to a named
// section. Parent, when present, is a back-reference to a section by
// its declaration index.
type Metadata struct {
	Key       string
	Value     string
	HasParent bool
	ParentIdx uint32
}

func (m Metadata) writeTo(w io.Writer) error {
	if err := codec.WriteString(w, m.Key); err != nil {
		return err
	}
	if err := codec.WriteString(w, m.Value); err != nil {
		return err
	}

	hasParent := uint8(0)
	if m.HasParent {
		hasParent = 1
	}
	if err := codec.WriteUint8(w, hasParent); err != nil {
		return err
	}
	if !m.HasParent {
		return nil
	}

	return codec.WriteUint32(w, m.ParentIdx)
}

func readMetadata(r io.Reader) (Metadata, error) {
	var m Metadata
	var err error

	if m.Key, err = codec.ReadString(r); err != nil {
		return Metadata{}, err
	}
	if m.Key == "" {
		return Metadata{}, fmt.Errorf("%w: metadata key is empty", errs.ErrHeaderInvalid)
	}
	if m.Value, err = codec.ReadString(r); err != nil {
		return Metadata{}, err
	}

	hasParent, err := codec.ReadUint8(r)
	if err != nil {
		return Metadata{}, err
	}
	if hasParent > 1 {
		return Metadata{}, fmt.Errorf("%w: metadata parent flag byte %d", errs.ErrHeaderInvalid, hasParent)
	}
	m.HasParent = hasParent == 1
	if !m.HasParent {
		return m, nil
	}

	if m.ParentIdx, err = codec.ReadUint32(r); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

// validateMetadata checks key uniqueness. When strict is false (the
// default), keys must be unique only within their own parent scope;
// when strict is true (the strict-mode toggle), keys must be unique
// across the entire file.
func validateMetadata(entries []Metadata, sectionCount int, strict bool) error {
	var errOut error

	const rootKey = ^uint32(0)
	const strictKey = ^uint32(0) - 1

	seen := make(map[uint32]map[string]bool)

	for _, m := range entries {
		if m.HasParent && int(m.ParentIdx) >= sectionCount {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: metadata %q references section %d, have %d sections", errs.ErrUnknownParent, m.Key, m.ParentIdx, sectionCount))
			continue
		}

		scopeKey := rootKey
		if m.HasParent {
			scopeKey = m.ParentIdx
		}
		if strict {
			scopeKey = strictKey
		}

		if seen[scopeKey] == nil {
			seen[scopeKey] = make(map[string]bool)
		}
		if seen[scopeKey][m.Key] {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: %q", errs.ErrDuplicateMetadataKey, m.Key))
			continue
		}
		seen[scopeKey][m.Key] = true
	}

	return errOut
}
