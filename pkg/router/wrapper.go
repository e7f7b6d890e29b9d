package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/ws"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"golang.org/x/exp/slices"
)

func (r *Router) newContext(w http.ResponseWriter, req *http.Request) context.Context {
	ctx := xcontext.WithHTTPRequest(r.ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}

func (r *Router) runBefores(ctx context.Context) (context.Context, error) {
	for _, middleware := range r.befores {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func (r *Router) runClosers(ctx context.Context) {
	for _, closer := range r.closers {
		closer(ctx)
	}
}

func (r *Router) wrap(method string, handle func(context.Context) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(w, req)

		var err error
		defer func() { r.runClosers(xcontext.WithError(ctx, err)) }()

		if req.Method != method {
			err = errorx.New(errorx.BadRequest, "Method %s is not allowed", req.Method)
			writeError(ctx, w, err)
			return
		}

		ctx, err = r.runBefores(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		var resp any
		resp, err = handle(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

// Websocket upgrades requests of pattern after every middleware passed. The
// connection is closed when the handler returns.
func Websocket[Request any](r *Router, pattern string, handler WebsocketHandlerFunc[Request]) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(*r.allowedOrigins, "*") || slices.Contains(*r.allowedOrigins, origin)
		},
	}

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(w, req)

		var err error
		defer func() { r.runClosers(xcontext.WithError(ctx, err)) }()

		ctx, err = r.runBefores(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		var wsReq Request
		if err = bindQuery(req, &wsReq); err != nil {
			writeError(ctx, w, err)
			return
		}

		conn, upgradeErr := upgrader.Upgrade(w, req, nil)
		if upgradeErr != nil {
			// The upgrader already replied to the client.
			xcontext.Logger(ctx).Warnf("Cannot upgrade websocket: %v", upgradeErr)
			return
		}

		client := ws.NewClient(conn)
		defer client.Close()

		err = handler(xcontext.WithWSClient(ctx, client), &wsReq)
	})
}

func bindQuery(req *http.Request, v any) error {
	input := map[string]any{}
	for key, values := range req.URL.Query() {
		if len(values) == 1 {
			input[key] = values[0]
		} else {
			input[key] = values
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid query: %v", err)
	}

	return nil
}

func bindJSON(req *http.Request, v any) error {
	err := json.NewDecoder(req.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errorx.New(errorx.BadRequest, "Invalid body: %v", err)
	}

	return nil
}
