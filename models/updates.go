// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Update is the closed set of live update variants the sync engine fans
// out. The unexported marker keeps the set closed to this package.
type Update interface {
	Object
	update()
}

// UpdateNewMessage announces one new message, advancing pts by PtsCount.
type UpdateNewMessage struct {
	Message  *Message
	Pts      int32
	PtsCount int32
}

func (*UpdateNewMessage) CRC() uint32 { return 0x1f2b0afd }
func (*UpdateNewMessage) update()     {}

// UpdateShort wraps a single inner update with a date and no entity
// context.
type UpdateShort struct {
	Update Update
	Date   int32
}

func (*UpdateShort) CRC() uint32 { return 0x78d4dec1 }
func (*UpdateShort) update()     {}

// UpdatesCombined is the container variant: several inner updates shipped
// together with the entity snapshots they reference.
type UpdatesCombined struct {
	Updates  []Update
	Users    []*User
	Chats    []*Chat
	Date     int32
	SeqStart int32
	Seq      int32
}

func (*UpdatesCombined) CRC() uint32 { return 0x725b04c3 }
func (*UpdatesCombined) update()     {}

// UpdatesTooLong tells the client its position is too far behind to ship
// updates inline; it must fetch a difference.
type UpdatesTooLong struct{}

func (*UpdatesTooLong) CRC() uint32 { return 0xe317af7e }
func (*UpdatesTooLong) update()     {}

// UpdateConnectionState is the synthetic variant wrapping a transport
// liveness signal. It never travels on the wire.
type UpdateConnectionState struct {
	State ConnectionState
}

func (*UpdateConnectionState) CRC() uint32 { return 0 }
func (*UpdateConnectionState) update()     {}
