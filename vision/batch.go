// MODUL: batch
// ZWECK: Paralleles Preprocessing mehrerer Bilder
// INPUT: Kontext, SourceImages, Zielgroesse, Parallelitaet
// OUTPUT: Tensoren in Eingabe-Reihenfolge
// NEBENEFFEKTE: startet bis zu limit Goroutinen
// ABHAENGIGKEITEN: golang.org/x/sync/errgroup
// HINWEISE: Der erste Fehler bricht die restlichen Bilder ab

package vision

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PreprocessBatch verarbeitet srcs parallel mit hoechstens limit Goroutinen
// (limit <= 0 bedeutet unbegrenzt). Das Ergebnis hat dieselbe Reihenfolge wie srcs.
func (n *Normalizer) PreprocessBatch(ctx context.Context, srcs []SourceImage, width, height, limit int) ([]*Tensor, error) {
	if err := validateShape(width, height); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	tensors := make([]*Tensor, len(srcs))
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			t, err := n.Preprocess(src, width, height)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			tensors[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tensors, nil
}
