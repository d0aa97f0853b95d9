package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/mazeserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sess := NewSession("test_session_1", &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrieved, exists := manager.Get("test_session_1")
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrieved != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove("test_session_1")
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	if _, exists = manager.Get("test_session_1"); exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_StartsUnbound(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	if sess.RoomCode != "" {
		t.Errorf("New session should have no bound room, got %q", sess.RoomCode)
	}
	if sess.Name != "" {
		t.Errorf("New session should have no name, got %q", sess.Name)
	}
}

func TestSession_Touch(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	before := sess.LastActive

	time.Sleep(time.Millisecond)
	sess.Touch()

	if !sess.LastActive.After(before) {
		t.Error("Touch should advance LastActive")
	}
}
