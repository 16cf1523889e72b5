package db

import (
	"time"

	"github.com/google/uuid"
)

// Roast represents a stored roast.
type Roast struct {
	ID                uuid.UUID
	PlaylistSpotifyID string
	UserIPAddress     string
	UserDisplayName   *string // nullable
	RoastText         string
	GeneratedAt       time.Time
	PlaylistMetadata  []byte // JSON document
	IsPublic          bool
}

// Duplicate is the most recent roast matching a playlist by ID or name.
type Duplicate struct {
	RoastID      uuid.UUID
	PlaylistName string
	GeneratedAt  time.Time
}

// PlaylistMetadata is the latest known summary of a Spotify playlist.
type PlaylistMetadata struct {
	SpotifyID       string
	Name            string
	Description     string
	Owner           string
	ArtistCount     int
	TrackCount      int
	PopularityScore int
	LocalMusicCount int
	ExplicitCount   int
	TopArtist       *string // nullable
	FetchedAt       time.Time
}
