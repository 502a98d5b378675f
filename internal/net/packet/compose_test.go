package packet

import (
	"bytes"
	"testing"
)

func TestComposeFragmentIdentical(t *testing.T) {
	calls := 0
	fragment := func(w *Writer) {
		calls++
		w.WriteInt8(0x0B)
		w.WriteInt32(2022000)
		w.WriteString("buff")
	}
	const playerID = 31337
	pkts := Compose(fragment,
		Target{Header: SMSG_THEATRICS},
		Target{Header: SMSG_SKILL_SHOW, Prefix: func(w *Writer) { w.WriteInt32(playerID) }},
		Target{Header: SMSG_MAP_EFFECT, Prefix: func(w *Writer) { w.WriteInt8(1); w.WriteInt16(7) }},
	)
	if calls != 1 {
		t.Fatalf("expected fragment serialized once, got %d", calls)
	}
	if len(pkts) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(pkts))
	}

	ref := NewFragment()
	ref.WriteInt8(0x0B)
	ref.WriteInt32(2022000)
	ref.WriteString("buff")
	frag := ref.Bytes()

	prefixLens := []int{2, 2 + 4, 2 + 3}
	for i, p := range pkts {
		if got := p[prefixLens[i]:]; !bytes.Equal(got, frag) {
			t.Errorf("packet %d: fragment %x, expected %x", i, got, frag)
		}
	}

	r := NewReader(0, pkts[1][2:])
	if id := r.ReadInt32(); id != playerID {
		t.Errorf("expected observer copy addressed to %d, got %d", playerID, id)
	}
}

func TestComposePacketsDoNotAlias(t *testing.T) {
	pkts := Compose(func(w *Writer) { w.WriteInt32(1) },
		Target{Header: SMSG_THEATRICS},
		Target{Header: SMSG_SKILL_SHOW},
	)
	pkts[0][2] = 0xff
	if pkts[1][2] == 0xff {
		t.Error("target packets share backing storage")
	}
}

func TestSplit(t *testing.T) {
	sp := Split(func(w *Writer) { w.WriteInt8(9) },
		Target{Header: SMSG_THEATRICS},
		Target{Header: SMSG_SKILL_SHOW, Prefix: func(w *Writer) { w.WriteInt32(5) }},
	)
	if !bytes.Equal(sp.Self, []byte{0x92, 0x00, 0x09}) {
		t.Errorf("self: got %x", sp.Self)
	}
	if !bytes.Equal(sp.Others, []byte{0x93, 0x00, 0x05, 0x00, 0x00, 0x00, 0x09}) {
		t.Errorf("others: got %x", sp.Others)
	}
}
