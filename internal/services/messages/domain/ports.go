package domain

import "context"

// WriterPort ingests raw messages
type WriterPort interface {
	// Ingest stores one message and returns it with its assigned id
	Ingest(ctx context.Context, in IngestInput) (Message, error)
}

// ReaderPort reads messages for the classify pipeline
type ReaderPort interface {
	// ListUnprocessed returns up to Limit unprocessed rows ordered by (posted_at, id)
	ListUnprocessed(ctx context.Context, in ListInput) (rows []Message, next AfterKey, err error)

	// MarkProcessed flags the given message ids as consumed by the pipeline
	MarkProcessed(ctx context.Context, ids []string) error
}
