package diary

import (
	"context"
	"fmt"
)

// PhotoView is one photo of an entry as shown in the full-screen viewer.
type PhotoView struct {
	EntryID int64  `json:"entry_id"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	DataURL string `json:"data_url"`
	Counter string `json:"counter"`
	Prev    int    `json:"prev"`
	Next    int    `json:"next"`
}

// Photo returns the photo at index with the neighbours to navigate to.
// Navigation wraps around at both ends.
func (m *Manager) Photo(ctx context.Context, entryID int64, index int) (PhotoView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.findLocked(ctx, entryID)
	if err != nil {
		return PhotoView{}, err
	}

	n := len(entry.Photos)
	if n == 0 || index < 0 || index >= n {
		return PhotoView{}, fmt.Errorf("%w: entry %d index %d", ErrPhotoNotFound, entryID, index)
	}

	return PhotoView{
		EntryID: entryID,
		Index:   index,
		Total:   n,
		DataURL: entry.Photos[index],
		Counter: fmt.Sprintf("%d/%d", index+1, n),
		Prev:    (index - 1 + n) % n,
		Next:    (index + 1) % n,
	}, nil
}

// PhotoLayout names the grid used to lay out n photos.
func PhotoLayout(n int) string {
	switch n {
	case 1:
		return "single"
	case 2:
		return "double"
	case 3:
		return "triple"
	case 4:
		return "quadruple"
	case 5:
		return "quintuple"
	default:
		return ""
	}
}
