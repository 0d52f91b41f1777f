package ledger

import (
	"fmt"
	"strings"
)

// FieldValues is an edit payload: textual values keyed by the canonical
// editable field names.
type FieldValues map[string]string

// ChangeSet is the minimal description of one edit: which fields changed
// and their before/after text. Fields keeps sheet order so audit entries
// read the same way every time.
type ChangeSet struct {
	Fields []string          `json:"fields"`
	Prev   map[string]string `json:"prev"`
	New    map[string]string `json:"new"`
}

// Empty reports whether the edit changed nothing.
func (cs ChangeSet) Empty() bool { return len(cs.Fields) == 0 }

// DiffDay compares a day's previously persisted values against newly
// entered ones, field by field over the editable set.
//
// When both sides parse as amounts they are compared as numbers with exact
// equality, so "100" vs "100.00" is not a change while any representable
// difference is. When either side fails to parse, the comparison falls
// back to trimmed strings. Candidate fields that are not in the editable
// set are rejected; fields absent from the candidate are treated as not
// edited.
func DiffDay(previous, candidate FieldValues) (ChangeSet, error) {
	for name := range candidate {
		if !editable(name) {
			return ChangeSet{}, errUnknown(name)
		}
	}

	cs := ChangeSet{
		Prev: make(map[string]string),
		New:  make(map[string]string),
	}
	for _, name := range EditableFields {
		nv, ok := candidate[name]
		if !ok {
			continue
		}
		pv := previous[name]
		if valuesEqual(pv, nv) {
			continue
		}
		cs.Fields = append(cs.Fields, name)
		cs.Prev[name] = pv
		cs.New[name] = nv
	}
	return cs, nil
}

func valuesEqual(prev, next string) bool {
	pf, perr := ParseAmount(prev)
	nf, nerr := ParseAmount(next)
	if perr == nil && nerr == nil {
		return pf == nf
	}
	return strings.TrimSpace(prev) == strings.TrimSpace(next)
}

func editable(name string) bool {
	for _, f := range EditableFields {
		if f == name {
			return true
		}
	}
	return false
}

func errUnknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}
