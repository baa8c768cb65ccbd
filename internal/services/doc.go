// Package services implements the Apple Music API client.
//
// The Service interface lists the operations the tool layer depends on;
// AppleMusicService implements it against api.music.apple.com with
// dual-header authentication (developer token + Music-User-Token).
package services
