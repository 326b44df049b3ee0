package history

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// sessionIDLength is how many hex characters a derived session id carries —
// short enough to keep bank filenames (clink_history_<id>) readable, long
// enough that two hosts attaching at the same instant don't collide.
const sessionIDLength = 8

// NewSessionID returns a fresh bank-file suffix for one attached session.
// The original identifies a session bank by the host process's numeric id;
// this port has no equivalent single global id to lean on across
// goroutines and re-attaches, so it mints a random one instead and folds it
// down to a short, filename-safe tag with blake2b.
func NewSessionID() string {
	sum := blake2b.Sum256(uuid.New()[:])
	return hex.EncodeToString(sum[:])[:sessionIDLength]
}
