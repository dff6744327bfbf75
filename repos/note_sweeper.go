package repos

import (
	"time"

	"github.com/ashokgiriii/tweet-nepal/utils"
)

// StartNoteSweeper launches a background goroutine that periodically deletes
// expired notes. Reads already filter on expires_at, so the sweeper only
// reclaims storage; a missed tick never surfaces a dead note.
func StartNoteSweeper(notes NoteRepo, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := notes.DeleteExpired()
			if err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Warnf("note sweeper failed: %v", err)
				}
				continue
			}
			if n > 0 && utils.Sugar != nil {
				utils.Sugar.Infof("note sweeper removed %d expired notes", n)
			}
		}
	}()
}
