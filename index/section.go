package index

import (
	"fmt"
	"io"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/errs"
	"go.uber.org/multierr"
)

// Section is a named anchor in the page sequence. Parent is a
// back-reference to an earlier-declared section by its position in
// declaration order; HasParent is false for root-level sections.
type Section struct {
	Name       string
	TargetPage uint32
	HasParent  bool
	ParentIdx  uint32
}

func (s Section) writeTo(w io.Writer) error {
	if err := codec.WriteString(w, s.Name); err != nil {
		return err
	}
	if err := codec.WriteUint32(w, s.TargetPage); err != nil {
		return err
	}

	hasParent := uint8(0)
	if s.HasParent {
		hasParent = 1
	}
	if err := codec.WriteUint8(w, hasParent); err != nil {
		return err
	}
	if !s.HasParent {
		return nil
	}

	return codec.WriteUint32(w, s.ParentIdx)
}

func readSection(r io.Reader) (Section, error) {
	var s Section
	var err error

	if s.Name, err = codec.ReadString(r); err != nil {
		return Section{}, err
	}
	if s.Name == "" {
		return Section{}, fmt.Errorf("%w: section name is empty", errs.ErrHeaderInvalid)
	}
	if s.TargetPage, err = codec.ReadUint32(r); err != nil {
		return Section{}, err
	}

	hasParent, err := codec.ReadUint8(r)
	if err != nil {
		return Section{}, err
	}
	if hasParent > 1 {
		return Section{}, fmt.Errorf("%w: section parent flag byte %d", errs.ErrHeaderInvalid, hasParent)
	}
	s.HasParent = hasParent == 1
	if !s.HasParent {
		return s, nil
	}

	if s.ParentIdx, err = codec.ReadUint32(r); err != nil {
		return Section{}, err
	}

	return s, nil
}

// validateSectionForest checks the section forest invariant: every
// non-root section's parent was declared earlier, names are unique
// among siblings, and every target page exists. Because a parent must be
// declared strictly before its child, the forest is cycle-free by
// construction; this function only needs to check the range and
// uniqueness constraints.
func validateSectionForest(sections []Section, pageCount int) error {
	var errOut error

	siblingNames := make(map[uint32]map[string]bool) // parent key -> name -> seen (root uses key ^0)
	const rootKey = ^uint32(0)

	for i, s := range sections {
		if s.HasParent && s.ParentIdx >= uint32(i) {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: section %q declares parent %d before it is declared", errs.ErrUnknownParent, s.Name, s.ParentIdx))
			continue
		}

		parentKey := rootKey
		if s.HasParent {
			parentKey = s.ParentIdx
		}

		if siblingNames[parentKey] == nil {
			siblingNames[parentKey] = make(map[string]bool)
		}
		if siblingNames[parentKey][s.Name] {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: %q", errs.ErrDuplicateSection, s.Name))
			continue
		}
		siblingNames[parentKey][s.Name] = true

		if int(s.TargetPage) >= pageCount {
			errOut = multierr.Append(errOut, fmt.Errorf("%w: section %q targets page %d, have %d pages", errs.ErrPageOutOfRange, s.Name, s.TargetPage, pageCount))
		}
	}

	return errOut
}
