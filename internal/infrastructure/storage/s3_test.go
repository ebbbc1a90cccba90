package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProofObjectKey(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	at := time.Unix(1700000000, 5)

	assert.Equal(t,
		"proofImages/0f8fad5b-d9cb-469f-a165-70867728950e/1700000000000000005.jpg",
		ProofObjectKey("proofImages", id, "Before.JPG", at),
	)
	assert.Equal(t,
		"proofs/0f8fad5b-d9cb-469f-a165-70867728950e/1700000000000000005",
		ProofObjectKey("proofs/", id, "noext", at),
	)
}
