// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// GetStateParams requests the server's current {pts, qts, date, seq}.
type GetStateParams struct{}

func (*GetStateParams) CRC() uint32 { return 0xedd4882a }
func (*GetStateParams) request()    {}

// GetDifferenceParams requests everything missed since the given position.
type GetDifferenceParams struct {
	Pts           int32
	PtsTotalLimit int32 // optional bound, zero means unset
	Date          int32
	Qts           int32
}

func (*GetDifferenceParams) CRC() uint32 { return 0x25939651 }
func (*GetDifferenceParams) request()    {}

// GetMeParams resolves the client's own user. On the wire this is
// users.getUsers carrying the self input user.
type GetMeParams struct{}

func (*GetMeParams) CRC() uint32 { return 0x0d91a548 }
func (*GetMeParams) request()    {}

// PingDelayDisconnectParams is the keepalive probe: the server drops the
// connection if no further ping arrives within DisconnectDelay seconds.
type PingDelayDisconnectParams struct {
	PingID          int64
	DisconnectDelay int32
}

func (*PingDelayDisconnectParams) CRC() uint32 { return 0xf3427b8c }
func (*PingDelayDisconnectParams) request()    {}

// Pong answers a ping.
type Pong struct {
	MsgID  int64
	PingID int64
}

func (*Pong) CRC() uint32 { return 0x347773c5 }
