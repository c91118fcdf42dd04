// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// User is the snapshot of a user entity carried inside updates and
// differences.
type User struct {
	ID         int64
	AccessHash int64
	Username   string
	FirstName  string
	LastName   string
	Self       bool
	Bot        bool
}

func (*User) CRC() uint32 { return 0x8f97c628 }

// Chat is the snapshot of a chat/channel entity.
type Chat struct {
	ID         int64
	AccessHash int64
	Title      string
	Broadcast  bool
}

func (*Chat) CRC() uint32 { return 0x41cbf256 }

// Message is a single message as delivered by new-message updates and
// difference replays.
type Message struct {
	ID     int32
	PeerID int64
	FromID int64
	Date   int32
	Text   string
	Out    bool
}

func (*Message) CRC() uint32 { return 0x38116ee0 }

// EntityMap is the id-keyed entity context attached to updates fanned out
// from a combined container, so handlers can resolve peers without a
// store round trip.
type EntityMap struct {
	Users map[int64]*User
	Chats map[int64]*Chat
}

// NewEntityMap indexes the given snapshots by id.
func NewEntityMap(users []*User, chats []*Chat) *EntityMap {
	m := &EntityMap{
		Users: make(map[int64]*User, len(users)),
		Chats: make(map[int64]*Chat, len(chats)),
	}
	for _, u := range users {
		m.Users[u.ID] = u
	}
	for _, c := range chats {
		m.Chats[c.ID] = c
	}
	return m
}

// User returns the user snapshot for id, or nil.
func (m *EntityMap) User(id int64) *User {
	if m == nil {
		return nil
	}
	return m.Users[id]
}

// Chat returns the chat snapshot for id, or nil.
func (m *EntityMap) Chat(id int64) *Chat {
	if m == nil {
		return nil
	}
	return m.Chats[id]
}
