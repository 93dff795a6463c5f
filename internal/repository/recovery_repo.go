// filepath: internal/repository/recovery_repo.go
package repository

import (
	"fmt"

	"photovault/internal/logging"
	"photovault/internal/models"
)

// RepairInvariants fixes catalog rows that break the tree invariants:
// albums whose parent lives in another vault are moved to the vault root,
// parent cycles are broken, and images take the vault of their album.
func (s *Repository) RepairInvariants() (*models.RepairReport, error) {
	report := &models.RepairReport{}

	res, err := s.DB.Exec(`
		UPDATE albums SET parent_id = NULL
		WHERE parent_id IS NOT NULL
		  AND vault_id != (SELECT p.vault_id FROM albums p WHERE p.id = albums.parent_id)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to detach cross-vault albums: %w", err)
	}
	detached, _ := res.RowsAffected()
	report.AlbumsDetached = int(detached)

	broken, err := s.breakCycles()
	if err != nil {
		return nil, err
	}
	report.CyclesBroken = broken

	res, err = s.DB.Exec(`
		UPDATE images
		SET vault_id = (SELECT a.vault_id FROM albums a WHERE a.id = images.album_id)
		WHERE album_id IS NOT NULL
		  AND (vault_id IS NULL OR vault_id != (SELECT a.vault_id FROM albums a WHERE a.id = images.album_id))
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to realign images: %w", err)
	}
	realigned, _ := res.RowsAffected()
	report.ImagesRealigned = int(realigned)

	if report.AlbumsDetached+report.CyclesBroken+report.ImagesRealigned > 0 {
		logging.Log.Infof("Repair: detached %d albums, broke %d cycles, realigned %d images",
			report.AlbumsDetached, report.CyclesBroken, report.ImagesRealigned)
	}
	return report, nil
}

// breakCycles detaches one album per parent cycle, choosing the highest id.
func (s *Repository) breakCycles() (int, error) {
	albums, err := s.ListAlbums()
	if err != nil {
		return 0, err
	}
	parents := make(map[int64]*int64, len(albums))
	for _, a := range albums {
		parents[a.ID] = a.ParentID
	}

	// 0 = unvisited, 1 = on current chain, 2 = known to terminate
	state := make(map[int64]int, len(albums))
	broken := 0
	for _, a := range albums {
		var chain []int64
		id := a.ID
		for {
			if state[id] == 2 {
				break
			}
			if state[id] == 1 {
				// Cycle: every chain entry from the first occurrence of id
				victim := id
				for i := len(chain) - 1; i >= 0 && chain[i] != id; i-- {
					if chain[i] > victim {
						victim = chain[i]
					}
				}
				if err := s.UpdateAlbumParent(victim, nil); err != nil {
					return broken, err
				}
				parents[victim] = nil
				broken++
				break
			}
			state[id] = 1
			chain = append(chain, id)
			parent, ok := parents[id]
			if !ok || parent == nil {
				break
			}
			if _, known := parents[*parent]; !known {
				break
			}
			id = *parent
		}
		for _, c := range chain {
			state[c] = 2
		}
	}
	return broken, nil
}

// UpdateAlbumParent sets only the parent of an album.
func (s *Repository) UpdateAlbumParent(id int64, parentID *int64) error {
	return s.execAffecting(s.Builder.Update("albums").Set("parent_id", ptrValue(parentID)).Where("id = ?", id),
		fmt.Sprintf("album %d", id))
}
