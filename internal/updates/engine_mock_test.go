// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package updates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/internal/mock"
	"github.com/MKhiriev/go-mtproto-client/models"
)

func TestInit_MockedStoreSkipsServerWhenPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)

	invoker := mock.NewMockInvoker(ctrl)
	store := mock.NewMockStore(ctrl)

	persisted := &models.UpdatesState{Pts: 42, Qts: 7, Date: 1700000000, Seq: 3}
	store.EXPECT().LoadState(gomock.Any()).Return(persisted, nil)

	engine := NewEngine(invoker, logger.Nop(), WithStore(store))
	require.NoError(t, engine.Init(context.Background()))

	st, ok := engine.State()
	require.True(t, ok)
	require.Equal(t, *persisted, st)
}

func TestInit_MockedStorePersistsServerState(t *testing.T) {
	ctrl := gomock.NewController(t)

	server := &models.UpdatesState{Pts: 100, Date: 1700000100, Seq: 1}

	invoker := mock.NewMockInvoker(ctrl)
	invoker.EXPECT().Invoke(gomock.Any(), &models.GetStateParams{}).Return(server, nil)

	store := mock.NewMockStore(ctrl)
	store.EXPECT().LoadState(gomock.Any()).Return(nil, nil)
	store.EXPECT().SaveState(gomock.Any(), server).Return(nil)

	engine := NewEngine(invoker, logger.Nop(), WithStore(store))
	require.NoError(t, engine.Init(context.Background()))
}

func TestCatchUp_MockedStoreReceivesPageEntities(t *testing.T) {
	ctrl := gomock.NewController(t)

	users := []*models.User{{ID: 1, FirstName: "Ada"}}
	chats := []*models.Chat{{ID: 9, Title: "ops"}}
	final := &models.UpdatesState{Pts: 110, Date: 1700000200, Seq: 2}

	invoker := mock.NewMockInvoker(ctrl)
	invoker.EXPECT().
		Invoke(gomock.Any(), gomock.AssignableToTypeOf(&models.GetDifferenceParams{})).
		Return(&models.DifferenceComplete{Users: users, Chats: chats, State: final}, nil)

	store := mock.NewMockStore(ctrl)
	store.EXPECT().LoadState(gomock.Any()).Return(&models.UpdatesState{Pts: 100}, nil)
	store.EXPECT().ProcessEntities(gomock.Any(), users, chats).Return(nil)
	store.EXPECT().SaveState(gomock.Any(), final).Return(nil)

	engine := NewEngine(invoker, logger.Nop(), WithStore(store))
	require.NoError(t, engine.Init(context.Background()))
	require.NoError(t, engine.CatchUp(context.Background()))
}
