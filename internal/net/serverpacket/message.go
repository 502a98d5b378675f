package serverpacket

import "github.com/vanago/channel/internal/net/packet"

const messageScrollingHeader int8 = 4

// ShowScrollingHeader shows msg in the scrolling header bar.
func ShowScrollingHeader(msg string) []byte {
	w := packet.NewWriter(packet.SMSG_MESSAGE)
	w.WriteInt8(messageScrollingHeader)
	w.WriteInt8(1)
	w.WriteString(msg)
	return w.Bytes()
}

// ChangeScrollingHeader replaces the scrolling header; an empty msg hides it.
func ChangeScrollingHeader(msg string) []byte {
	w := packet.NewWriter(packet.SMSG_MESSAGE)
	w.WriteInt8(messageScrollingHeader)
	w.WriteBool(msg != "")
	if msg != "" {
		w.WriteString(msg)
	}
	return w.Bytes()
}
