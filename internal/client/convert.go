// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/MKhiriev/go-mtproto-client/internal/tl"
	"github.com/MKhiriev/go-mtproto-client/models"
)

// marshalRequest maps a typed request onto its schema object.
func marshalRequest(req models.Request) (*tl.Object, error) {
	switch r := req.(type) {
	case *models.GetStateParams:
		return tl.NewObject("updates.getState", nil), nil

	case *models.GetDifferenceParams:
		fields := map[string]any{
			"pts":  r.Pts,
			"date": r.Date,
			"qts":  r.Qts,
		}
		if r.PtsTotalLimit > 0 {
			fields["pts_total_limit"] = r.PtsTotalLimit
		}
		return tl.NewObject("updates.getDifference", fields), nil

	case *models.GetMeParams:
		return tl.NewObject("users.getUsers", map[string]any{
			"id": []any{tl.NewObject("inputUserSelf", nil)},
		}), nil

	case *models.PingDelayDisconnectParams:
		return tl.NewObject("pingDelayDisconnect", map[string]any{
			"ping_id":          r.PingID,
			"disconnect_delay": r.DisconnectDelay,
		}), nil

	default:
		return nil, fmt.Errorf("no wire mapping for request %T", req)
	}
}

// unmarshalReply maps a decoded reply object back onto its typed form.
func unmarshalReply(obj *tl.Object) (any, error) {
	switch obj.Name {
	case "updates.state":
		return stateFromObject(obj), nil

	case "updates.differenceEmpty":
		return &models.DifferenceEmpty{
			Date: obj.Int("date"),
			Seq:  obj.Int("seq"),
		}, nil

	case "updates.difference":
		messages, others, users, chats, err := differenceBody(obj)
		if err != nil {
			return nil, err
		}
		st, err := nestedState(obj, "state")
		if err != nil {
			return nil, err
		}
		return &models.DifferenceComplete{
			NewMessages:  messages,
			OtherUpdates: others,
			Users:        users,
			Chats:        chats,
			State:        st,
		}, nil

	case "updates.differenceSlice":
		messages, others, users, chats, err := differenceBody(obj)
		if err != nil {
			return nil, err
		}
		st, err := nestedState(obj, "intermediate_state")
		if err != nil {
			return nil, err
		}
		return &models.DifferenceSlice{
			NewMessages:       messages,
			OtherUpdates:      others,
			Users:             users,
			Chats:             chats,
			IntermediateState: st,
		}, nil

	case "updates.differenceTooLong":
		return &models.DifferenceTooLong{Pts: obj.Int("pts")}, nil

	case "pong":
		return &models.Pong{
			MsgID:  obj.Long("msg_id"),
			PingID: obj.Long("ping_id"),
		}, nil

	case "vector":
		// the only vector-valued result in the method set is Vector<User>
		users, err := userVector(obj, "elements")
		if err != nil {
			return nil, err
		}
		return users, nil

	default:
		return updateFromObject(obj)
	}
}

// updateFromObject maps a decoded update container onto the closed
// models.Update set.
func updateFromObject(obj *tl.Object) (models.Update, error) {
	switch obj.Name {
	case "updateNewMessage":
		msg, err := nestedMessage(obj, "message")
		if err != nil {
			return nil, err
		}
		return &models.UpdateNewMessage{
			Message:  msg,
			Pts:      obj.Int("pts"),
			PtsCount: obj.Int("pts_count"),
		}, nil

	case "updateShort":
		raw, ok := obj.Get("update")
		if !ok {
			return nil, fmt.Errorf("updateShort: missing inner update")
		}
		innerObj, ok := raw.(*tl.Object)
		if !ok {
			return nil, fmt.Errorf("updateShort: inner update is not an object")
		}
		inner, err := updateFromObject(innerObj)
		if err != nil {
			return nil, err
		}
		return &models.UpdateShort{Update: inner, Date: obj.Int("date")}, nil

	case "updatesCombined":
		inner, err := updateVector(obj, "updates")
		if err != nil {
			return nil, err
		}
		users, err := userVector(obj, "users")
		if err != nil {
			return nil, err
		}
		chats, err := chatVector(obj, "chats")
		if err != nil {
			return nil, err
		}
		return &models.UpdatesCombined{
			Updates:  inner,
			Users:    users,
			Chats:    chats,
			Date:     obj.Int("date"),
			SeqStart: obj.Int("seq_start"),
			Seq:      obj.Int("seq"),
		}, nil

	case "updatesTooLong":
		return &models.UpdatesTooLong{}, nil

	default:
		return nil, fmt.Errorf("no typed mapping for constructor %q", obj.Name)
	}
}

func differenceBody(obj *tl.Object) ([]*models.Message, []models.Update, []*models.User, []*models.Chat, error) {
	messages, err := messageVector(obj, "new_messages")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	others, err := updateVector(obj, "other_updates")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	users, err := userVector(obj, "users")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	chats, err := chatVector(obj, "chats")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return messages, others, users, chats, nil
}

func stateFromObject(obj *tl.Object) *models.UpdatesState {
	return &models.UpdatesState{
		Pts:  obj.Int("pts"),
		Qts:  obj.Int("qts"),
		Date: obj.Int("date"),
		Seq:  obj.Int("seq"),
	}
}

func userFromObject(obj *tl.Object) *models.User {
	return &models.User{
		ID:         obj.Long("id"),
		AccessHash: obj.Long("access_hash"),
		FirstName:  obj.Str("first_name"),
		LastName:   obj.Str("last_name"),
		Username:   obj.Str("username"),
		Self:       obj.Bool("is_self"),
		Bot:        obj.Bool("bot"),
	}
}

func chatFromObject(obj *tl.Object) *models.Chat {
	return &models.Chat{
		ID:         obj.Long("id"),
		AccessHash: obj.Long("access_hash"),
		Title:      obj.Str("title"),
		Broadcast:  obj.Bool("broadcast"),
	}
}

func messageFromObject(obj *tl.Object) *models.Message {
	return &models.Message{
		ID:     obj.Int("id"),
		PeerID: obj.Long("peer_id"),
		FromID: obj.Long("from_id"),
		Date:   obj.Int("date"),
		Out:    obj.Bool("out"),
		Text:   obj.Str("message"),
	}
}

func nestedState(obj *tl.Object, field string) (*models.UpdatesState, error) {
	inner, err := nestedObject(obj, field)
	if err != nil {
		return nil, err
	}
	return stateFromObject(inner), nil
}

func nestedMessage(obj *tl.Object, field string) (*models.Message, error) {
	inner, err := nestedObject(obj, field)
	if err != nil {
		return nil, err
	}
	return messageFromObject(inner), nil
}

func nestedObject(obj *tl.Object, field string) (*tl.Object, error) {
	raw, ok := obj.Get(field)
	if !ok {
		return nil, fmt.Errorf("%s: missing field %q", obj.Name, field)
	}
	inner, ok := raw.(*tl.Object)
	if !ok {
		return nil, fmt.Errorf("%s: field %q is not an object", obj.Name, field)
	}
	return inner, nil
}

func objectVector(obj *tl.Object, field string) ([]*tl.Object, error) {
	raw, ok := obj.Get(field)
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: field %q is not a vector", obj.Name, field)
	}

	out := make([]*tl.Object, 0, len(items))
	for _, item := range items {
		inner, ok := item.(*tl.Object)
		if !ok {
			return nil, fmt.Errorf("%s: %q element is not an object", obj.Name, field)
		}
		out = append(out, inner)
	}
	return out, nil
}

func messageVector(obj *tl.Object, field string) ([]*models.Message, error) {
	objs, err := objectVector(obj, field)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Message, 0, len(objs))
	for _, o := range objs {
		out = append(out, messageFromObject(o))
	}
	return out, nil
}

func userVector(obj *tl.Object, field string) ([]*models.User, error) {
	objs, err := objectVector(obj, field)
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(objs))
	for _, o := range objs {
		out = append(out, userFromObject(o))
	}
	return out, nil
}

func chatVector(obj *tl.Object, field string) ([]*models.Chat, error) {
	objs, err := objectVector(obj, field)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Chat, 0, len(objs))
	for _, o := range objs {
		out = append(out, chatFromObject(o))
	}
	return out, nil
}

func updateVector(obj *tl.Object, field string) ([]models.Update, error) {
	objs, err := objectVector(obj, field)
	if err != nil {
		return nil, err
	}
	out := make([]models.Update, 0, len(objs))
	for _, o := range objs {
		u, err := updateFromObject(o)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
