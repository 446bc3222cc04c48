// Package httpapi 把抓取门面暴露为 HTTP JSON 接口。
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/vmscrape/internal/app/scrape"
	"github.com/John-Robertt/vmscrape/internal/domain"
)

// Service 是 handler 依赖的门面（*scrape.Service 实现它）。
type Service interface {
	Search(ctx context.Context, query string) (domain.MovieRecord, error)
	Latest(ctx context.Context) (domain.MovieRecord, error)
}

// 对外错误文案固定，不透出内部错误细节。
const (
	msgNoQuery     = "No query"
	msgNoResult    = "No result"
	msgNoData      = "No data yet"
	msgFetchFailed = "Fetch failed"
	msgInternal    = "Internal error"
)

type Handler struct {
	svc Service
	log logrus.FieldLogger

	// searchMu 串行化 Search：snapshot 只有一份，同一时刻只允许一次抓取。
	// Latest 不受影响。
	searchMu sync.Mutex
}

func New(svc Service, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{svc: svc, log: log}
}

// Router 返回挂好中间件的路由。
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, h.logRequests)

	r.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	r.HandleFunc("/api/search", h.Search).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/latest", h.Latest).Methods(http.MethodGet)
	return r
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(queryFrom(r))
	if query == "" {
		writeError(w, http.StatusBadRequest, msgNoQuery)
		return
	}

	h.searchMu.Lock()
	rec, err := h.svc.Search(r.Context(), query)
	h.searchMu.Unlock()

	if err != nil {
		h.fail(w, r, err, msgNoResult)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Latest(r.Context())
	if err != nil {
		h.fail(w, r, err, msgNoData)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// fail 按 error_code 映射状态码；notFoundMsg 因接口而异。
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	code := scrape.ErrorCode(err)
	switch code {
	case domain.ErrCodeEmptyQuery:
		writeError(w, http.StatusBadRequest, msgNoQuery)
	case domain.ErrCodeNotFound:
		writeError(w, http.StatusNotFound, notFoundMsg)
	case domain.ErrCodeFetchFailed:
		writeError(w, http.StatusBadGateway, msgFetchFailed)
	default:
		h.log.WithFields(logrus.Fields{
			"request_id": RequestID(r.Context()),
			"error_code": code,
		}).WithError(err).Error("请求处理失败")
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// queryFrom 依次读取 JSON body 的 query 字段、表单字段与 URL 参数。
func queryFrom(r *http.Request) string {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" && r.Body != nil {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err == nil {
			return body.Query
		}
		return r.URL.Query().Get("query")
	}
	return r.FormValue("query")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
