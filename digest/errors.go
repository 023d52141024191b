package digest

import (
	"errors"
	"fmt"
)

// Kind classifies digestion failures. Every error returned by a
// Digester carries exactly one kind and is terminal for that call.
type Kind int

const (
	KindUnknown        Kind = iota
	KindFilesystem          // file missing or unreadable
	KindUnsupported         // no digestor claims the file
	KindInvalidFormat       // claimed but structurally invalid
	KindExternalIO          // the geospatial or tabular I/O layer failed
	KindZoomEstimation      // no usable zoom range could be derived
)

func (k Kind) String() string {
	switch k {
	case KindFilesystem:
		return "filesystem"
	case KindUnsupported:
		return "unsupported"
	case KindInvalidFormat:
		return "invalid_format"
	case KindExternalIO:
		return "external_io"
	case KindZoomEstimation:
		return "zoom_estimation"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// KindOf extracts the failure kind from any error returned by Digest.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

func filesystemf(format string, args ...interface{}) error {
	return &Error{Kind: KindFilesystem, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedf(format string, args ...interface{}) error {
	return &Error{Kind: KindUnsupported, Msg: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidFormat, Msg: fmt.Sprintf(format, args...)}
}

func externalf(format string, args ...interface{}) error {
	return &Error{Kind: KindExternalIO, Msg: fmt.Sprintf(format, args...)}
}

func zoomf(format string, args ...interface{}) error {
	return &Error{Kind: KindZoomEstimation, Msg: fmt.Sprintf(format, args...)}
}
