package replay

import (
	"fmt"

	"settlers/internal/game"
	"settlers/internal/protocol"
)

// Result summarizes a verified replay.
type Result struct {
	Final   *game.GameState
	Checked int
}

// Verify rebuilds the game from the header and re-applies every entry,
// comparing state digests along the way.
func Verify(log *Log) (*Result, error) {
	g, rng, err := log.Header.Start()
	if err != nil {
		return nil, fmt.Errorf("rebuild game: %w", err)
	}
	got, err := Digest(g)
	if err != nil {
		return nil, err
	}
	if got != log.Header.Digest {
		return nil, fmt.Errorf("%w: initial state: got %s want %s", ErrDigestMismatch, got, log.Header.Digest)
	}

	res := &Result{}
	for i, e := range log.Entries {
		if e.Seq != i+1 {
			return nil, fmt.Errorf("%w: entry %d has seq %d", ErrBadLog, i+1, e.Seq)
		}
		a, err := protocol.DecodeAction(e.Type, e.Action)
		if err != nil {
			return nil, fmt.Errorf("seq %d: %w", e.Seq, err)
		}
		g, err = game.Apply(g, a, rng)
		if err != nil {
			return nil, fmt.Errorf("seq %d: %s rejected: %w", e.Seq, e.Type, err)
		}
		got, err := Digest(g)
		if err != nil {
			return nil, err
		}
		if got != e.Digest {
			return nil, fmt.Errorf("%w: seq %d (%s): got %s want %s", ErrDigestMismatch, e.Seq, e.Type, got, e.Digest)
		}
		res.Checked++
	}
	res.Final = g
	return res, nil
}
