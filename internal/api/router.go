package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	AI           *AIHandler
	Transactions *TransactionsHandler
	Statistics   *StatisticsHandler
	User         *UserHandler
}

// NewRouter assembles the mux and the middleware chain.
func NewRouter(h Handlers, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ai/parse-voice", methodHandler(http.MethodPost, h.AI.ParseVoice))
	mux.HandleFunc("/api/ai/scan-receipt", methodHandler(http.MethodPost, h.AI.ScanReceipt))
	mux.HandleFunc("/api/ai/chat", methodHandler(http.MethodPost, h.AI.Chat))
	mux.HandleFunc("/api/ai/config", methodHandler(http.MethodGet, h.AI.Config))

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Transactions.List(w, r)
		case http.MethodPost:
			h.Transactions.Create(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/transactions/export/csv", methodHandler(http.MethodGet, h.Transactions.ExportCSV))
	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id < 1 {
			WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.Transactions.Get(w, r, id)
		case http.MethodPut:
			h.Transactions.Update(w, r, id)
		case http.MethodDelete:
			h.Transactions.Delete(w, r, id)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statistics/monthly", methodHandler(http.MethodGet, h.Statistics.Monthly))
	mux.HandleFunc("/api/statistics/category", methodHandler(http.MethodGet, h.Statistics.ByCategory))
	mux.HandleFunc("/api/statistics/trend", methodHandler(http.MethodGet, h.Statistics.Trend))

	mux.HandleFunc("/api/user/me", methodHandler(http.MethodGet, h.User.Me))
	mux.HandleFunc("/api/user/stats", methodHandler(http.MethodGet, h.User.Stats))
	mux.HandleFunc("/api/user", methodHandler(http.MethodPost, h.User.Create))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"message": "欢迎使用可爱记账 API 🐷"})
	})

	return Recovery(log)(
		Logger(log)(
			RequestID(
				CORS(
					NoCache(mux),
				),
			),
		),
	)
}

func methodHandler(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		fn(w, r)
	}
}
