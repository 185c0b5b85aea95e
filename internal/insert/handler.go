package insert

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-sod/kdset/internal/httputil"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/pkg/container/kdtree"
	"github.com/go-sod/kdset/pkg/geom"
)

type request struct {
	Points []geom.Point `json:"points"`
}

type response struct {
	Inserted int `json:"inserted"`
	Size     int `json:"size"`
}

type Index interface {
	index.Inserter
	Len() int
}

func NewHandler(cfg *Config, idx Index) (http.Handler, error) {
	if idx == nil {
		return nil, errors.New("index instance is not created")
	}
	return &handler{
		idx: idx,
		cfg: cfg,
	}, nil
}

type handler struct {
	idx Index
	cfg *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !httputil.DecodeJSONPost(ctx, w, r, &req) {
		return
	}
	if len(req.Points) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, "data items is too large, max allowed len is %d", h.cfg.MaxDataItemsLen)
		return
	}
	if err := ctx.Err(); err != nil {
		httputil.RespInternalError(ctx, w, "request expired before insert, %v", err)
		return
	}

	inserted, err := h.idx.Insert(ctx, req.Points...)
	switch {
	case errors.Is(err, kdtree.ErrInvalidPoint), errors.Is(err, index.ErrOutOfDomain):
		httputil.RespBadRequest(ctx, w, "%v", err)
		return
	case err != nil:
		httputil.RespInternalError(ctx, w, "insert processing error, %v", err)
		return
	}

	logger.Infof("inserted %d new points of %d", inserted, len(req.Points))
	httputil.RespJSON(ctx, w, response{Inserted: inserted, Size: h.idx.Len()})
}
