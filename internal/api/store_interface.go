package api

import "github.com/deepluxmed/medscales/internal/services"

// Store is the full persistence surface the server needs. The patient and
// assessment halves are the narrow interfaces the services consume; the rest
// covers catalog bookkeeping (favorites, recently viewed) and the wipe-all
// operation.
type Store interface {
	services.PatientStore
	services.AssessmentStore

	AddFavorite(scaleID string) error
	RemoveFavorite(scaleID string) error
	IsFavorite(scaleID string) (bool, error)
	ListFavorites() ([]string, error)

	// TouchRecent moves the scale to the front of the recently-viewed list,
	// deduplicating and trimming to the store's configured cap.
	TouchRecent(scaleID string) error
	ListRecent() ([]string, error)

	// Clear wipes every record: patients, assessments, favorites, recents.
	Clear() error
}

var _ Store = (*memoryStore)(nil)
