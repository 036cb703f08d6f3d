package dep_collector

import (
	"fmt"

	"github.com/connectdotz/metro/internal/logger"
)

// InvalidRequireCallError is the single error kind produced by the pass. It
// covers every static-resolution failure: a dynamic template interpolation, a
// tagged template argument, a non-string argument, and a wrong number of
// arguments at a recognized call. The AST may be partially mutated when this
// error is returned and must be discarded by the caller.
type InvalidRequireCallError struct {
	Text     string
	Location *logger.MsgLocation
}

func (e *InvalidRequireCallError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("InvalidRequireCallError: %s (%s:%d:%d)",
			e.Text, e.Location.File, e.Location.Line, e.Location.Column)
	}
	return "InvalidRequireCallError: " + e.Text
}

// collectorPanic aborts the traversal on the first error. It is caught at
// the entry point and converted back into an error return.
type collectorPanic struct {
	err *InvalidRequireCallError
}

func (c *collector) throwInvalidRequireCall(r logger.Range, text string) {
	panic(collectorPanic{err: &InvalidRequireCallError{
		Text:     text,
		Location: logger.LocationOrNil(&c.source, r),
	}})
}
