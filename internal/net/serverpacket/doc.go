// Package serverpacket builds outbound packets. Builders take plain values
// so that world and system code can use them without import cycles; each
// returns finished bytes ready for a session's output buffer.
package serverpacket
