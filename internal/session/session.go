// Package session defines the root game state object and builds fresh games.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/samdwyer/darkcave/internal/entity"
	"github.com/samdwyer/darkcave/internal/world"
)

// FOVRadius is how far the player can see.
const FOVRadius = 8

// Session owns all mutable state of one game in progress. Exactly one handler
// holds a Session at a time.
type Session struct {
	ID       uuid.UUID
	Player   *entity.Player
	Dungeon  *world.Dungeon
	Monsters []*entity.Monster
	Log      *MessageLog
	Turn     int
}

// UpdateFOV recomputes the player's field of view.
func (s *Session) UpdateFOV() {
	x, y := s.Player.Position()
	s.Dungeon.ComputeFOV(x, y, FOVRadius)
}

// MonsterAt returns the living monster at the position, or nil.
func (s *Session) MonsterAt(x, y int) *entity.Monster {
	for _, m := range s.Monsters {
		if !m.IsAlive() {
			continue
		}
		if mx, my := m.Position(); mx == x && my == y {
			return m
		}
	}
	return nil
}

// Validate checks the structural invariants a loaded session must satisfy.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return errors.New("session has no id")
	}
	if s.Player == nil {
		return errors.New("session has no player")
	}
	if err := s.Player.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if s.Dungeon == nil {
		return errors.New("session has no dungeon")
	}
	if err := s.Dungeon.Validate(); err != nil {
		return fmt.Errorf("dungeon: %w", err)
	}
	if !s.Dungeon.InBounds(s.Player.X, s.Player.Y) {
		return fmt.Errorf("player at (%d,%d) is off the map", s.Player.X, s.Player.Y)
	}
	for i, m := range s.Monsters {
		if m == nil {
			return fmt.Errorf("monster %d is missing", i)
		}
		if !s.Dungeon.InBounds(m.X, m.Y) {
			return fmt.Errorf("monster %d at (%d,%d) is off the map", i, m.X, m.Y)
		}
		if room := s.Dungeon.RoomIndexAt(m.X, m.Y); room != m.RoomIndex {
			return fmt.Errorf("monster %d is in room %d, recorded as room %d", i, room, m.RoomIndex)
		}
	}
	if s.Log == nil {
		return errors.New("session has no message log")
	}
	if s.Turn < 0 {
		return fmt.Errorf("negative turn %d", s.Turn)
	}
	return nil
}
