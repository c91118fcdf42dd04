// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-mtproto-client/internal/crypto"
	"github.com/MKhiriev/go-mtproto-client/internal/logger"
	"github.com/MKhiriev/go-mtproto-client/internal/tl"
	"github.com/MKhiriev/go-mtproto-client/models"
)

// Client turns typed requests into wire frames and back. One frame per
// request: encode, encrypt, send, decrypt, decode. A frame that fails to
// decode poisons only that request, never the client.
type Client struct {
	transport Transport
	codec     *tl.Codec
	cipher    crypto.Cipher
	log       *logger.Logger

	// onRequest marks content-bearing traffic for the keepalive loop's
	// idle tracking. Optional.
	onRequest func()
}

// ClientOption mutates a Client during construction.
type ClientOption func(*Client)

// WithCipher encrypts every frame with the given cipher (IGE for message
// frames, CTR for the transport obfuscation layer). Without it frames
// travel in plain encoding.
func WithCipher(cipher crypto.Cipher) ClientOption {
	return func(c *Client) { c.cipher = cipher }
}

// WithRequestHook is called once per content-bearing request, before it
// is sent.
func WithRequestHook(hook func()) ClientOption {
	return func(c *Client) { c.onRequest = hook }
}

// NewClient builds the facade around transport. The wire schema is
// compiled in; a schema that fails to parse is a programming error and
// surfaces here.
func NewClient(transport Transport, log *logger.Logger, opts ...ClientOption) (*Client, error) {
	codec, err := tl.NewCodecFromSchema(clientSchema)
	if err != nil {
		return nil, fmt.Errorf("compile client schema: %w", err)
	}

	c := &Client{
		transport: transport,
		codec:     codec,
		log:       &logger.Logger{Logger: log.With().Str("component", "client").Logger()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invoke sends one typed request and returns its typed reply.
func (c *Client) Invoke(ctx context.Context, req models.Request) (any, error) {
	obj, err := marshalRequest(req)
	if err != nil {
		return nil, err
	}
	if c.onRequest != nil {
		if _, ping := req.(*models.PingDelayDisconnectParams); !ping {
			c.onRequest()
		}
	}

	frame, err := c.codec.Encode(obj)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", obj.Name, err)
	}
	if c.cipher != nil {
		if frame, err = c.cipher.Encrypt(frame); err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", obj.Name, err)
		}
	}

	reply, err := c.transport.Send(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", obj.Name, err)
	}

	replyObj, err := c.decodeFrame(reply)
	if err != nil {
		return nil, fmt.Errorf("reply to %s: %w", obj.Name, err)
	}
	c.log.Debug().Str("request", obj.Name).Str("reply", replyObj.Name).Msg("invoked")
	return unmarshalReply(replyObj)
}

// GetMe resolves the client's own user via users.getUsers with the self
// input user. Satisfies the sync engine's self-resolver dependency.
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	raw, err := c.Invoke(ctx, &models.GetMeParams{})
	if err != nil {
		return nil, err
	}
	users, ok := raw.([]*models.User)
	if !ok || len(users) == 0 {
		return nil, errors.New("users.getUsers: empty reply")
	}
	return users[0], nil
}

// DecodeUpdate turns a pushed frame into a typed update for the sync
// engine. The caller feeds it every frame the transport delivers outside
// a request/reply exchange.
func (c *Client) DecodeUpdate(frame []byte) (models.Update, error) {
	obj, err := c.decodeFrame(frame)
	if err != nil {
		return nil, err
	}
	return updateFromObject(obj)
}

func (c *Client) decodeFrame(frame []byte) (*tl.Object, error) {
	var err error
	if c.cipher != nil {
		if frame, err = c.cipher.Decrypt(frame); err != nil {
			return nil, err
		}
	}
	return c.codec.Decode(frame)
}
