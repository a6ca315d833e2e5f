package rng

import "testing"

func TestDeriveStreamsIndependence(t *testing.T) {
	s := DeriveStreams(12345)
	seeds := map[StreamName]uint64{
		StreamLayout:      s.Layout.Seed(),
		StreamRooms:       s.Rooms.Seed(),
		StreamConnections: s.Connections.Seed(),
		StreamDetails:     s.Details.Seed(),
	}
	seen := make(map[uint64]bool)
	for name, seed := range seeds {
		if seen[seed] {
			t.Fatalf("stream %s shares a derived seed with another stream", name)
		}
		seen[seed] = true
	}
}

func TestDeriveStreamsDeterministic(t *testing.T) {
	a := DeriveStreams(987654321)
	b := DeriveStreams(987654321)
	for i := 0; i < 20; i++ {
		if a.Layout.Uint64() != b.Layout.Uint64() {
			t.Fatalf("layout stream not reproducible at iteration %d", i)
		}
		if a.Connections.Float64() != b.Connections.Float64() {
			t.Fatalf("connections stream not reproducible at iteration %d", i)
		}
	}
}

func TestDeriveStreamsGetUnknown(t *testing.T) {
	s := DeriveStreams(1)
	if s.Get("bogus") != nil {
		t.Fatal("Get of unknown stream name should return nil")
	}
	if s.Get(StreamDetails) != s.Details {
		t.Fatal("Get(StreamDetails) should return s.Details")
	}
}
