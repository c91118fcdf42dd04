// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// clientSchema declares every constructor the facade can put on or take
// off the wire. Constructor ids are explicit, so the set stays stable
// regardless of textual drift.
const clientSchema = `
user#8f97c628 id:long access_hash:long first_name:string last_name:string username:string self:Bool bot:Bool = User;
chat#41cbf256 id:long access_hash:long title:string broadcast:Bool = Chat;
message#38116ee0 id:int peer_id:long from_id:long date:int out:Bool message:string = Message;

updates.state#a56c2a3e pts:int qts:int date:int seq:int = updates.State;
updates.differenceEmpty#5d75a138 date:int seq:int = updates.Difference;
updates.difference#00f49ca0 new_messages:Vector<Message> other_updates:Vector<Update> chats:Vector<Chat> users:Vector<User> state:updates.State = updates.Difference;
updates.differenceSlice#a8fb1981 new_messages:Vector<Message> other_updates:Vector<Update> chats:Vector<Chat> users:Vector<User> intermediate_state:updates.State = updates.Difference;
updates.differenceTooLong#4afe8f6d pts:int = updates.Difference;

updateNewMessage#1f2b0afd message:Message pts:int pts_count:int = Update;
updateShort#78d4dec1 update:Update date:int = Updates;
updatesCombined#725b04c3 updates:Vector<Update> users:Vector<User> chats:Vector<Chat> date:int seq_start:int seq:int = Updates;
updatesTooLong#e317af7e = Updates;

inputUserSelf#f7c1b13f = InputUser;

pong#347773c5 msg_id:long ping_id:long = Pong;

---functions---

updates.getState#edd4882a = updates.State;
updates.getDifference#25939651 flags:# pts:int pts_total_limit:flags.0?int date:int qts:int = updates.Difference;
users.getUsers#0d91a548 id:Vector<InputUser> = Vector<User>;
ping_delay_disconnect#f3427b8c ping_id:long disconnect_delay:int = Pong;
`
