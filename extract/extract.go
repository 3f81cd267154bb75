package extract

import (
	"errors"

	"github.com/pevans/horoscrape/horoscope"
)

var (
	ErrSignNotFound   = errors.New("sign header not found")
	ErrNoValidSegment = errors.New("no header candidate produced a valid segment")
)

// Extractor runs locate, validate and parse for one sign at a time. It holds
// no per-document state and may be reused across documents.
type Extractor struct {
	accept AcceptPolicy
	signs  []horoscope.Sign
}

// New creates an extractor that validates chunks with accept. A nil accept
// uses DefaultAcceptPolicy.
func New(accept AcceptPolicy) *Extractor {
	if accept == nil {
		accept = DefaultAcceptPolicy
	}
	return &Extractor{
		accept: accept,
		signs:  horoscope.AllSigns,
	}
}

// Extract returns sign's fields from doc. It fails with ErrSignNotFound when no
// line looks like the sign's header and ErrNoValidSegment when every candidate
// was rejected.
func (e *Extractor) Extract(doc Document, sign horoscope.Sign) (Fields, error) {
	candidates := FindHeaderCandidates(doc, sign)
	if len(candidates) == 0 {
		return Fields{}, ErrSignNotFound
	}

	chunk, ok := ExtractSegment(doc, sign, candidates, e.signs, e.accept)
	if !ok {
		return Fields{}, ErrNoValidSegment
	}

	return ParseFields(chunk, sign), nil
}
