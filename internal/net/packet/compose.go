package packet

// Target describes one addressed copy of a shared fragment: its header and
// the addressing fields written between the header and the fragment.
type Target struct {
	Header Header
	Prefix func(w *Writer) // may be nil
}

// Compose serializes fragment once and returns one packet per target, each
// laid out as [header][prefix][fragment]. The fragment bytes are identical
// in every result.
func Compose(fragment func(w *Writer), targets ...Target) [][]byte {
	shared := NewFragment()
	fragment(shared)

	out := make([][]byte, len(targets))
	for i, t := range targets {
		w := NewWriter(t.Header)
		if t.Prefix != nil {
			t.Prefix(w)
		}
		w.WriteWriter(shared)
		out[i] = w.Bytes()
	}
	return out
}

// SplitPacket is the usual two-target composition: one copy for the acting
// player and one for everyone else on the map.
type SplitPacket struct {
	Self   []byte
	Others []byte
}

// Split composes fragment for the acting player and the map observers.
func Split(fragment func(w *Writer), self, others Target) SplitPacket {
	pkts := Compose(fragment, self, others)
	return SplitPacket{Self: pkts[0], Others: pkts[1]}
}
