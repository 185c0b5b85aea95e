package query

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sod/kdset/internal/httputil"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/pkg/geom"
	"golang.org/x/sync/errgroup"
)

type pointsRequest struct {
	Points []geom.Point `json:"points"`
}

type rangeRequest struct {
	Rect *geom.Rect `json:"rect"`
}

type containsItem struct {
	Point    geom.Point `json:"point"`
	Contains bool       `json:"contains"`
}

type containsResponse struct {
	Data []containsItem `json:"data"`
}

type rangeResponse struct {
	Points []geom.Point `json:"points"`
}

type nearestItem struct {
	Query   geom.Point  `json:"query"`
	Nearest *geom.Point `json:"nearest,omitempty"`
	Found   bool        `json:"found"`
}

type nearestResponse struct {
	Data []nearestItem `json:"data"`
}

type sizeResponse struct {
	Size  int  `json:"size"`
	Empty bool `json:"empty"`
}

var errNoIndex = errors.New("index instance is not created")

type handler struct {
	idx index.Querier
	cfg *Config
}

func newHandler(cfg *Config, idx index.Querier) (*handler, error) {
	if idx == nil {
		return nil, errNoIndex
	}
	return &handler{idx: idx, cfg: cfg}, nil
}

// decodePoints decodes a points request and checks its size.
func (h *handler) decodePoints(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]geom.Point, bool) {
	var req pointsRequest
	if !httputil.DecodeJSONPost(ctx, w, r, &req) {
		return nil, false
	}
	if len(req.Points) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, "data items is too large, max allowed len is %d", h.cfg.MaxDataItemsLen)
		return nil, false
	}
	if err := ctx.Err(); err != nil {
		httputil.RespInternalError(ctx, w, "request expired before query, %v", err)
		return nil, false
	}
	return req.Points, true
}

func NewContainsHandler(cfg *Config, idx index.Querier) (http.Handler, error) {
	h, err := newHandler(cfg, idx)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(h.contains), nil
}

func (h *handler) contains(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	points, ok := h.decodePoints(ctx, w, r)
	if !ok {
		return
	}
	resp := containsResponse{Data: make([]containsItem, len(points))}
	for i, p := range points {
		resp.Data[i] = containsItem{Point: p, Contains: h.idx.Contains(ctx, p)}
	}
	httputil.RespJSON(ctx, w, resp)
}

func NewRangeHandler(cfg *Config, idx index.Querier) (http.Handler, error) {
	h, err := newHandler(cfg, idx)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(h.rangeSearch), nil
}

func (h *handler) rangeSearch(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if !httputil.DecodeJSONPost(ctx, w, r, &req) {
		return
	}
	if req.Rect == nil {
		httputil.RespBadRequest(ctx, w, "rect is required")
		return
	}

	points, err := h.idx.Range(ctx, *req.Rect)
	switch {
	case errors.Is(err, geom.ErrInvalidRect):
		httputil.RespBadRequest(ctx, w, "%v", err)
		return
	case err != nil:
		httputil.RespInternalError(ctx, w, "range processing error, %v", err)
		return
	}
	httputil.RespJSON(ctx, w, rangeResponse{Points: points})
}

func NewNearestHandler(cfg *Config, idx index.Querier) (http.Handler, error) {
	h, err := newHandler(cfg, idx)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(h.nearest), nil
}

func (h *handler) nearest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	points, ok := h.decodePoints(ctx, w, r)
	if !ok {
		return
	}
	data, err := h.nearestAll(ctx, points)
	if err != nil {
		httputil.RespInternalError(ctx, w, "nearest processing error, %v", err)
		return
	}
	httputil.RespJSON(ctx, w, nearestResponse{Data: data})
}

// nearestAll looks up every query point concurrently. Each goroutine writes
// only its own slot of the result.
func (h *handler) nearestAll(ctx context.Context, points []geom.Point) ([]nearestItem, error) {
	limit := h.cfg.MaxConcurrentLookups
	if limit < 1 {
		limit = 1
	}
	rate := make(chan struct{}, limit)
	data := make([]nearestItem, len(points))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			select {
			case rate <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-rate }()

			nearest, found, err := h.idx.Nearest(gctx, p)
			if err != nil {
				return fmt.Errorf("nearest to %v: %w", p, err)
			}
			data[i] = nearestItem{Query: p, Found: found}
			if found {
				data[i].Nearest = &nearest
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debugf("answered %d nearest queries", len(points))
	return data, nil
}

func NewSizeHandler(idx index.Querier) (http.Handler, error) {
	if idx == nil {
		return nil, errNoIndex
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.RespError(r.Context(), w, http.StatusMethodNotAllowed, "method %v is not allowed", r.Method)
			return
		}
		n := idx.Len()
		httputil.RespJSON(r.Context(), w, sizeResponse{Size: n, Empty: n == 0})
	}), nil
}
