package roasts

import (
	"context"
	"errors"
	"testing"
)

func TestCheckForDuplicate(t *testing.T) {
	repo := &mockRepository{}
	s := newTestService(repo)
	ctx := context.Background()

	if got := s.CheckForDuplicate(ctx, "Gym Bangers", "abc123"); got.IsDuplicate {
		t.Fatalf("empty store reported duplicate: %+v", got)
	}

	saved := s.SaveRoast(ctx, sampleRoast("abc123", "Gym Bangers"))

	tests := []struct {
		name       string
		playlist   string
		playlistID string
		want       bool
	}{
		{"same id", "Renamed", "abc123", true},
		{"same name", "Gym Bangers", "other", true},
		{"name differs in case", "gym bangers", "other", false},
		{"different playlist", "Study", "xyz789", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.CheckForDuplicate(ctx, tt.playlist, tt.playlistID)
			if got.IsDuplicate != tt.want {
				t.Fatalf("IsDuplicate = %v, want %v", got.IsDuplicate, tt.want)
			}
			if !tt.want {
				return
			}
			if got.PlaylistName != "Gym Bangers" {
				t.Errorf("PlaylistName = %q, want %q", got.PlaylistName, "Gym Bangers")
			}
			if !got.OriginalRoastDate.Equal(fixedNow) {
				t.Errorf("OriginalRoastDate = %v, want %v", got.OriginalRoastDate, fixedNow)
			}
			if got.RoastID != saved.RoastID {
				t.Errorf("RoastID = %q, want %q", got.RoastID, saved.RoastID)
			}
		})
	}
}

func TestCheckForDuplicateIsIdempotent(t *testing.T) {
	repo := &mockRepository{}
	s := newTestService(repo)
	ctx := context.Background()
	s.SaveRoast(ctx, sampleRoast("abc123", "Gym Bangers"))

	first := s.CheckForDuplicate(ctx, "Gym Bangers", "abc123")
	second := s.CheckForDuplicate(ctx, "Gym Bangers", "abc123")

	if first != second {
		t.Errorf("repeated checks differ: %+v vs %+v", first, second)
	}
	if len(repo.roasts) != 1 {
		t.Errorf("duplicate checks changed the store: %d roasts", len(repo.roasts))
	}
}

func TestCheckForDuplicateFailsOpen(t *testing.T) {
	repo := &mockRepository{findErr: errors.New("connection refused")}
	s := newTestService(repo)

	got := s.CheckForDuplicate(context.Background(), "Gym Bangers", "abc123")
	if got.IsDuplicate {
		t.Errorf("CheckForDuplicate() = %+v, want not duplicate on lookup failure", got)
	}
	if got.Err == nil {
		t.Error("Err = nil, want lookup error")
	}
	if repo.findCalls != 1 {
		t.Errorf("FindDuplicate called %d times, want 1", repo.findCalls)
	}
}
