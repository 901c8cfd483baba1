// MODUL: errors
// ZWECK: Fehlerarten der Preprocessing-Pipeline (Resize, Decode, Allocation)
// INPUT: keine
// OUTPUT: Sentinel-Fehler fuer errors.Is
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: errors (Standardbibliothek)
// HINWEISE: Jeder Fehler der Pipeline wrappt genau eine dieser Arten

package vision

import "errors"

var (
	// ErrResize wird zurueckgegeben wenn kein Puffer in Zielgroesse erzeugt werden konnte
	ErrResize = errors.New("vision: resize failed")

	// ErrDecode wird zurueckgegeben wenn die Pixeldaten nicht gelesen werden konnten
	ErrDecode = errors.New("vision: pixel decode failed")

	// ErrAllocation wird zurueckgegeben wenn der Tensor nicht angelegt werden kann
	ErrAllocation = errors.New("vision: tensor allocation failed")

	// ErrInvalidParams wird zurueckgegeben bei unbrauchbaren mean/std Werten
	ErrInvalidParams = errors.New("vision: invalid normalization parameters")
)
