// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Difference is the closed set of catch-up responses to
// updates.getDifference.
type Difference interface {
	Object
	difference()
}

// DifferenceEmpty: nothing was missed; only date and seq advance.
type DifferenceEmpty struct {
	Date int32
	Seq  int32
}

func (*DifferenceEmpty) CRC() uint32 { return 0x5d75a138 }
func (*DifferenceEmpty) difference() {}

// DifferenceComplete is the terminal kind: everything missed since the
// requested position, with the final new state embedded.
type DifferenceComplete struct {
	NewMessages  []*Message
	OtherUpdates []Update
	Users        []*User
	Chats        []*Chat
	State        *UpdatesState
}

func (*DifferenceComplete) CRC() uint32 { return 0x00f49ca0 }
func (*DifferenceComplete) difference() {}

// DifferenceSlice is a partial replay: applied like DifferenceComplete but
// the embedded state is intermediate and the client must keep fetching.
type DifferenceSlice struct {
	NewMessages       []*Message
	OtherUpdates      []Update
	Users             []*User
	Chats             []*Chat
	IntermediateState *UpdatesState
}

func (*DifferenceSlice) CRC() uint32 { return 0xa8fb1981 }
func (*DifferenceSlice) difference() {}

// DifferenceTooLong: the gap is too large to replay. Only pts is adopted;
// the skipped updates are unrecoverably lost.
type DifferenceTooLong struct {
	Pts int32
}

func (*DifferenceTooLong) CRC() uint32 { return 0x4afe8f6d }
func (*DifferenceTooLong) difference() {}
