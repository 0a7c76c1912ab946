package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCurve        = errors.New("malformed curve descriptor")
	ErrInvalidRegistryRecord = errors.New("invalid registry record")
)

// Failure is a pool (or a whole chain) that could not be turned into a record.
type Failure struct {
	Chain string `json:"chain"`
	Key   string `json:"key"` // farm key, curve descriptor or "*" for the whole chain
	Err   error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Chain, f.Key, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Message is the JSON friendly error text.
func (f Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}
