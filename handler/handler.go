// Package handler serves paged document search over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ncobase/pagination/ctxutil"
	"github.com/ncobase/pagination/data"
	"github.com/ncobase/pagination/logging/logger"
	"github.com/ncobase/pagination/net/resp"
	"github.com/ncobase/pagination/paging"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	traceHeader = "X-Request-Id"
	tracerName  = "github.com/ncobase/pagination/handler"
)

// document is the shape served by every route
type document = map[string]any

// Handler handles HTTP requests for indexed documents.
type Handler struct {
	data   *data.Data
	tracer trace.Tracer
}

// New creates a handler over d
func New(d *data.Data) *Handler {
	return &Handler{data: d, tracer: otel.Tracer(tracerName)}
}

// Engine builds a gin engine with the middleware chain and every route
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.traceMiddleware(), h.loggerMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposeHeaders:   []string{traceHeader},
		MaxAge:          12 * time.Hour,
	}))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the document routes on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	docs := r.Group("/v1/indexes/:index/documents")
	docs.GET("", h.Search)
	docs.GET("/:id", h.Get)
}

// searchQuery holds the query string of a search request. Page and size
// below 1 select the defaults.
type searchQuery struct {
	Page    int      `form:"page"`
	Size    int      `form:"size"`
	Type    string   `form:"type"`
	Filter  string   `form:"filter"`
	Fields  []string `form:"fields"`
	Query   string   `form:"query"`
	Sort    string   `form:"sort"`
	OrderBy string   `form:"order_by"`
	Desc    bool     `form:"desc"`
}

func (q *searchQuery) compile() (*query.Query, sorting.Spec, error) {
	var (
		compiled *query.Query
		err      error
	)
	switch {
	case q.Query != "":
		compiled, err = query.From(q.Query)
	case q.Filter != "":
		compiled, err = query.ParseFields([]byte(q.Filter), q.Fields...)
	}
	if err != nil {
		return nil, nil, err
	}

	if q.Sort != "" {
		sort, err := sorting.Parse([]byte(q.Sort))
		return compiled, sort, err
	}
	req := paging.Request{OrderingKey: q.OrderBy, Descending: q.Desc}
	return compiled, req.SortSpec(), nil
}

func (h *Handler) client(ctx context.Context, index string) (*paging.Client[document], error) {
	return paging.NewClient[document](ctx, h.data.Search, index,
		paging.WithPaging(h.data.Paging),
		paging.WithCollector(h.data.Collector()),
	)
}

// Search handles one page of a filtered, sorted listing.
//
//	GET /v1/indexes/{index}/documents?page=2&size=20&filter={"status":["open"]}&order_by=created&desc=true
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var sq searchQuery
	if err := c.ShouldBindQuery(&sq); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	if sq.Query != "" && sq.Filter != "" {
		resp.Fail(c.Writer, resp.BadRequest("query and filter are mutually exclusive"))
		return
	}
	q, sort, err := sq.compile()
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}

	cl, err := h.client(ctx, c.Param("index"))
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}

	var opts []paging.CallOption
	if sq.Type != "" {
		opts = append(opts, paging.WithDocumentType(sq.Type))
	}
	page, err := cl.Paged(ctx, sq.Page, sq.Size, q, sort, opts...)
	if err != nil {
		logger.Errorf(ctx, "search %s failed: %v", c.Param("index"), err)
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, page)
}

// Get handles single document retrieval.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	cl, err := h.client(ctx, c.Param("index"))
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}

	doc, err := cl.Get(ctx, c.Param("id"))
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, doc)
}

// Health reports every connected engine. Status is 503 when any is down.
func (h *Handler) Health(c *gin.Context) {
	components := h.data.Health(c.Request.Context())
	status := http.StatusOK
	for _, ok := range components {
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}
	resp.WithStatusCode(c.Writer, status, map[string]any{
		"engine":     h.data.Search.GetEngine(),
		"components": components,
	})
}

// traceMiddleware carries the request id into the context and opens a span
func (h *Handler) traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(traceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Header(traceHeader, traceID)

		ctx, span := h.tracer.Start(ctx, c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.target", c.Request.URL.Path)),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

// loggerMiddleware logs every request once it completes
func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.EntryWithFields(c.Request.Context(), logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}).Info("http request")
	}
}
