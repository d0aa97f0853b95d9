package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/wfunc/mazeserver/state"
)

func TestRoom_HostIsFirstPlayer(t *testing.T) {
	r := New("ABC123", "host-conn", "Alice")

	if r.PlayerCount() != 1 {
		t.Fatalf("Expected 1 player after creation, got %d", r.PlayerCount())
	}

	host, exists := r.Player("host-conn")
	if !exists {
		t.Fatal("Host player should exist")
	}
	if host.Name != "Alice" {
		t.Errorf("Expected host name Alice, got %s", host.Name)
	}
	if host.Color != PlayerColors[0] {
		t.Errorf("Host should get the first palette color, got %v", host.Color)
	}
	if host.Position != SpawnPoint {
		t.Errorf("Host should spawn at %v, got %v", SpawnPoint, host.Position)
	}
}

func TestRoom_ColorAssignment(t *testing.T) {
	r := New("ABC123", "conn0", "Host")

	for i := 1; i < MaxPlayers; i++ {
		p, err := r.AddPlayer(fmt.Sprintf("conn%d", i), fmt.Sprintf("P%d", i))
		if err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
		if p.Color != PlayerColors[i%len(PlayerColors)] {
			t.Errorf("Joiner %d: expected color %v, got %v", i, PlayerColors[i%len(PlayerColors)], p.Color)
		}
	}
}

func TestRoom_AddPlayer_Full(t *testing.T) {
	r := New("ABC123", "conn0", "Host")
	for i := 1; i < MaxPlayers; i++ {
		if _, err := r.AddPlayer(fmt.Sprintf("conn%d", i), "P"); err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
	}

	_, err := r.AddPlayer("overflow", "TooMany")
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("Expected ErrRoomFull, got %v", err)
	}
	if r.PlayerCount() != MaxPlayers {
		t.Errorf("Membership should be unchanged after a rejected join, got %d", r.PlayerCount())
	}
}

func TestRoom_RemovePlayer(t *testing.T) {
	r := New("ABC123", "conn0", "Host")
	r.AddPlayer("conn1", "Bob")

	r.RemovePlayer("conn1")
	if r.PlayerCount() != 1 {
		t.Errorf("Expected 1 player after removal, got %d", r.PlayerCount())
	}

	// removing an absent player is a no-op
	r.RemovePlayer("conn1")
	r.RemovePlayer("never-joined")
	if r.PlayerCount() != 1 {
		t.Errorf("Removing absent players should change nothing, got %d", r.PlayerCount())
	}

	// remaining players keep their colors
	host, _ := r.Player("conn0")
	if host.Color != PlayerColors[0] {
		t.Errorf("Remaining player color should not be reassigned, got %v", host.Color)
	}
}

func TestRoom_UpdatePlayer_MergesOnlySuppliedFields(t *testing.T) {
	r := New("ABC123", "conn0", "Host")

	yaw := 1.5
	if !r.UpdatePlayer("conn0", Update{Yaw: &yaw}) {
		t.Fatal("Update for a present player should succeed")
	}

	p, _ := r.Player("conn0")
	if p.Yaw != 1.5 {
		t.Errorf("Expected yaw 1.5, got %f", p.Yaw)
	}
	if p.Position != SpawnPoint {
		t.Errorf("Position should be untouched by a yaw-only update, got %v", p.Position)
	}

	pos := [3]float64{1, 2, 3}
	light := 0.8
	r.UpdatePlayer("conn0", Update{Position: &pos, Light: &light})
	p, _ = r.Player("conn0")
	if p.Position != pos || p.Light != 0.8 || p.Yaw != 1.5 {
		t.Errorf("Merge result wrong: %+v", p)
	}
}

func TestRoom_UpdatePlayer_IgnoresIdentityFields(t *testing.T) {
	r := New("ABC123", "conn0", "Host")

	// A crafted payload trying to overwrite identity fields.
	raw := []byte(`{"position":[9,9,9],"color":[0,0,0],"name":"Evil","id":"other"}`)
	var u Update
	if err := json.Unmarshal(raw, &u); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	r.UpdatePlayer("conn0", u)

	p, _ := r.Player("conn0")
	if p.Color != PlayerColors[0] {
		t.Errorf("Color must not be client-writable, got %v", p.Color)
	}
	if p.Name != "Host" {
		t.Errorf("Name must not be client-writable, got %s", p.Name)
	}
	if p.ID != "conn0" {
		t.Errorf("ID must not be client-writable, got %s", p.ID)
	}
	if p.Position != [3]float64{9, 9, 9} {
		t.Errorf("Whitelisted position should still apply, got %v", p.Position)
	}
}

func TestRoom_UpdatePlayer_NeverTouchesOtherPlayers(t *testing.T) {
	r := New("ABC123", "a", "A")
	r.AddPlayer("b", "B")

	yaw := 3.0
	r.UpdatePlayer("a", Update{Yaw: &yaw})

	b, _ := r.Player("b")
	if b.Yaw != 0 {
		t.Errorf("Update from A must not mutate B, got yaw %f", b.Yaw)
	}
}

func TestRoom_UpdatePlayer_AbsentIsNoop(t *testing.T) {
	r := New("ABC123", "a", "A")

	yaw := 3.0
	if r.UpdatePlayer("ghost", Update{Yaw: &yaw}) {
		t.Error("Update for an absent player should report false")
	}
}

func TestRoom_MarkDeadAndReset(t *testing.T) {
	r := New("ABC123", "a", "A")
	r.AddPlayer("b", "B")

	pos := [3]float64{7, 7, 7}
	r.UpdatePlayer("a", Update{Position: &pos})
	if _, ok := r.MarkDead("a"); !ok {
		t.Fatal("MarkDead for a present player should succeed")
	}
	if _, ok := r.MarkDead("ghost"); ok {
		t.Error("MarkDead for an absent player should report false")
	}

	r.Reset()

	for _, id := range []string{"a", "b"} {
		p, _ := r.Player(id)
		if p.Position != SpawnPoint {
			t.Errorf("Player %s should be back at spawn, got %v", id, p.Position)
		}
		if p.Dead {
			t.Errorf("Player %s should be revived after reset", id)
		}
	}
}

func TestRoom_Reset_KeepsNameAndColor(t *testing.T) {
	r := New("ABC123", "a", "A")
	r.AddPlayer("b", "B")

	r.Reset()

	b, _ := r.Player("b")
	if b.Name != "B" || b.Color != PlayerColors[1] {
		t.Errorf("Reset must keep identity fields, got %+v", b)
	}
}

func TestRoom_LevelProgression(t *testing.T) {
	r := New("ABC123", "a", "A")

	advances := 0
	for attempt := 0; attempt < 5; attempt++ {
		for i := 0; i < state.CodesPerLevel; i++ {
			r.CompleteCode(i)
		}
		seedBefore := r.MapSeed()
		if r.TryLevelUp() {
			advances++
			if r.CodeCount() != 0 {
				t.Error("Successful level up should clear the code set")
			}
			if r.MapSeed() == seedBefore {
				t.Error("Successful level up should change the map seed")
			}
		}
	}

	if advances != state.MaxLevel {
		t.Errorf("Expected exactly %d advances over the room lifetime, got %d", state.MaxLevel, advances)
	}
	if r.Level() != state.MaxLevel {
		t.Errorf("Expected terminal level %d, got %d", state.MaxLevel, r.Level())
	}
}

func TestRoom_Snapshot(t *testing.T) {
	r := New("ABC123", "a", "A")
	r.AddPlayer("b", "B")
	r.CompleteCode(1)

	snap := r.Snapshot()
	if snap.CurrentLevel != 0 {
		t.Errorf("Expected level 0, got %d", snap.CurrentLevel)
	}
	if len(snap.Players) != 2 {
		t.Fatalf("Expected 2 players in snapshot, got %d", len(snap.Players))
	}
	if snap.Players[0].ID != "a" || snap.Players[1].ID != "b" {
		t.Errorf("Snapshot should preserve join order, got %s, %s", snap.Players[0].ID, snap.Players[1].ID)
	}
	if len(snap.CompletedCodes) != 1 || snap.CompletedCodes[0] != 1 {
		t.Errorf("Expected completed codes [1], got %v", snap.CompletedCodes)
	}
}
