// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan_test

import (
	"testing"

	"github.com/corvid-systems/ringchan"
)

func TestBuildSelectsMultiplicity(t *testing.T) {
	cases := []struct {
		name           string
		b              *ringchan.Builder
		wantSenderCap  bool
		wantReceiveCap bool
	}{
		{"spsc", ringchan.New(8).SingleSender().SingleReceiver(), false, false},
		{"spmc", ringchan.New(8).SingleSender(), false, true},
		{"mpsc", ringchan.New(8).SingleReceiver(), true, false},
		{"mpmc", ringchan.New(8), true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			send, recv := ringchan.Build[int](tc.b)
			defer send.Close()
			defer recv.Close()

			senderClonable := !panics(func() { send.Clone().Close() })
			if senderClonable != tc.wantSenderCap {
				t.Fatalf("sender clonable: got %v, want %v", senderClonable, tc.wantSenderCap)
			}

			receiverClonable := !panics(func() { recv.Clone().Close() })
			if receiverClonable != tc.wantReceiveCap {
				t.Fatalf("receiver clonable: got %v, want %v", receiverClonable, tc.wantReceiveCap)
			}
		})
	}
}

func TestBuildSPSCRequiresConstraints(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("BuildSPSC without constraints: expected panic, got none")
		}
	}()
	ringchan.BuildSPSC[int](ringchan.New(8))
}

func TestBuildMPMCRejectsConstraints(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("BuildMPMC with SingleSender: expected panic, got none")
		}
	}()
	ringchan.BuildMPMC[int](ringchan.New(8).SingleSender())
}

func TestBuildQueueSPSC(t *testing.T) {
	send, recv := ringchan.BuildQueueSPSC[int](ringchan.New(0).SingleSender().SingleReceiver())
	defer send.Close()
	defer recv.Close()

	v := 42
	if err := send.TrySend(&v); err != nil {
		t.Fatal(err)
	}
	got, err := recv.TryRecv()
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func panics(f func()) (didPanic bool) {
	defer func() {
		if recover() != nil {
			didPanic = true
		}
	}()
	f()
	return false
}
