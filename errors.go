package assistant

import "errors"

var (
	// ErrEmptyQuestion rejects blank input before the pipeline starts.
	ErrEmptyQuestion = errors.New("question is required")

	// ErrRetrievalUnavailable means the document store could not be
	// reached. Hard failure: the turn ends FAILED rather than generating
	// an answer without evidence.
	ErrRetrievalUnavailable = errors.New("document store is unavailable")

	// ErrGenerationFailed means the completion backend errored after the
	// retry. Hard failure.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrUnparsableVerdict means the judge's output mapped to none of the
	// three verdicts. The turn still completes; the record carries
	// NOT_RELEVANT plus the raw judge output.
	ErrUnparsableVerdict = errors.New("unparsable relevance verdict")

	// ErrInvalidRating rejects feedback ratings other than +1 and -1.
	ErrInvalidRating = errors.New("rating must be +1 or -1")
)
