package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Tables     *TableHandler
	Sessions   *SessionHandler
	Orders     *OrderHandler
	Reports    *ReportHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Tables != nil {
		mux.HandleFunc("/tables", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Tables.List(w, r)
		})
	}

	mux.HandleFunc("/tables/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/tables/")
		parts := strings.SplitN(rest, "/", 2)
		tableID := parts[0]
		if tableID == "" || len(parts) < 2 {
			http.NotFound(w, r)
			return
		}

		switch parts[1] {
		case "session":
			if cfg.Sessions == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodPost:
				cfg.Sessions.Start(w, r, tableID)
			case http.MethodDelete:
				cfg.Sessions.Stop(w, r, tableID)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		case "reservation":
			if cfg.Tables == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodPost:
				cfg.Tables.Reserve(w, r, tableID)
			case http.MethodDelete:
				cfg.Tables.CancelReservation(w, r, tableID)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		case "out-of-service":
			if cfg.Tables == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodPost:
				cfg.Tables.MarkOutOfService(w, r, tableID)
			case http.MethodDelete:
				cfg.Tables.ReturnToService(w, r, tableID)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		case "orders":
			if cfg.Orders == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Orders.SessionOrders(w, r, tableID)
			case http.MethodPost:
				cfg.Orders.Place(w, r, tableID)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		default:
			http.NotFound(w, r)
		}
	})

	if cfg.Orders != nil {
		mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Orders.ListProducts(w, r)
		})
	}

	if cfg.Reports != nil {
		mux.HandleFunc("/reports/daily", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reports.Daily(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		handler = cfg.Middleware[i](handler)
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
