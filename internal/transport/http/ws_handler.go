package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/intervue/session-server/internal/auth"
	"github.com/intervue/session-server/internal/config"
	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/proto"
	"github.com/intervue/session-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to the core gateway.
type WSHandler struct {
	gateway *core.Gateway
	jwt     *auth.JWTConfig
	cfg     *config.Config
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(gateway *core.Gateway, jwtConfig *auth.JWTConfig, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{gateway: gateway, jwt: jwtConfig, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	identity, err := h.authenticate(r)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws unauthorized")
		stdhttp.Error(w, "unauthorized", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.AllowedOrigins,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.cfg.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.cfg.MaxMessageBytes)
	}

	client := h.gateway.Connect(utils.NewID(), identity)
	defer h.gateway.Disconnect(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	limiter := newRateLimiter(h.cfg.RateLimitPerSecond, h.cfg.RateLimitBurst)

	errCh := make(chan error, 3)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.pingLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutines
	<-errCh
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate resolves the caller identity. A presented token must be valid;
// a missing one is only fatal when tokens are required.
func (h *WSHandler) authenticate(r *stdhttp.Request) (string, error) {
	if !h.jwt.Enabled() {
		return "", nil
	}
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) && !h.cfg.JWTRequired {
			return "", nil
		}
		return "", err
	}
	claims, err := auth.ValidateToken(h.jwt, token)
	if err != nil {
		return "", err
	}
	return claims.Identity(), nil
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, limiter *rateLimiter) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ws inbound")
			return err
		}

		if !limiter.allow() {
			h.log.Debug().Str("client_id", client.ID).Str("type", inbound.Type).Msg("rate limited")
			if err := writeError(ctx, conn, &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many messages"}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			if err := writeError(ctx, conn, protoErr); err != nil {
				return err
			}
			continue
		}
		h.gateway.Handle(client, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event := <-client.Events:
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pingLoop lets the transport notice peers that vanished without a close frame.
func (h *WSHandler) pingLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	interval := h.cfg.PingInterval
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws ping failed")
				}
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, protoErr *proto.Error) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: protoErr,
	})
}
