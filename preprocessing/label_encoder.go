package preprocessing

import (
	"sort"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// DefaultCode is the code unseen values are mapped to: the code of the
// lexicographically first class.
const DefaultCode = 0

// LabelEncoder maps the distinct strings seen during fitting to the codes
// 0..k-1 in sorted order. It is immutable after Fit.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder builds an encoder over the distinct values.
func FitLabelEncoder(values []string) (*LabelEncoder, error) {
	if len(values) == 0 {
		return nil, errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}, nil
}

// Classes returns the encoded classes in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Len returns the number of classes.
func (e *LabelEncoder) Len() int { return len(e.classes) }

// Default returns the class unseen values are remapped to.
func (e *LabelEncoder) Default() string { return e.classes[DefaultCode] }

// Encode returns the code of v and whether v was seen during fitting.
// Unseen values get DefaultCode.
func (e *LabelEncoder) Encode(v string) (int, bool) {
	code, ok := e.index[v]
	if !ok {
		return DefaultCode, false
	}
	return code, true
}

// Decode returns the class for code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", errors.NewValueError("LabelEncoder.Decode", "code out of range")
	}
	return e.classes[code], nil
}
