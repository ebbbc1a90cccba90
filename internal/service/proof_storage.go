package service

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ProofStorage turns an uploaded completion proof into an opaque reference.
// The lifecycle engine only ever sees the returned string.
type ProofStorage interface {
	Store(ctx context.Context, appointmentID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
}
