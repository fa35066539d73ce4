package storefront

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adyen/shopcheck/internal/models"
	"go.uber.org/zap"
)

// SessionCookie carries the session id
const SessionCookie = "shopcheck_session"

// StoreName is the document title of the home page
const StoreName = "My Store"

// Search alerts
const (
	EmptySearchAlert = "Please enter a search keyword"
	NoResultsAlert   = "No results found."
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{"home", "search", "authentication", "my-account", "order", "address"}

// Handler serves every storefront page from /index.php, dispatching on the
// controller query parameter.
type Handler struct {
	pages   map[string]*template.Template
	catalog Catalog
	carts   CartService
	log     *zap.Logger
}

// NewHandler parses the embedded templates
func NewHandler(catalog Catalog, carts CartService, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Handler{pages: pages, catalog: catalog, carts: carts, log: logger}, nil
}

// page is the data every template renders from
type page struct {
	Title       string
	Controller  string
	Quantity    int
	Customer    string
	SearchQuery string

	Products []Product
	Alert    string

	Email string
	Back  string

	Lines        []line
	ProductTotal models.Amount
	Shipping     models.Amount
	Total        models.Amount
}

// SignedIn reports whether the header shows the account links
func (p page) SignedIn() bool { return p.Customer != "" }

type line struct {
	Index int
	models.LineItem
}

func newPage(session *Session, controller, title string) page {
	p := page{
		Title:        title,
		Controller:   controller,
		Quantity:     session.Cart.TotalQuantity(),
		Customer:     session.Customer,
		ProductTotal: session.Cart.ProductTotal(),
		Shipping:     session.Cart.Shipping,
		Total:        session.Cart.GrandTotal(),
	}
	for i, item := range session.Cart.Items {
		p.Lines = append(p.Lines, line{Index: i, LineItem: item})
	}
	return p
}

// ServeHTTP handles every storefront request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		http.Redirect(w, r, "/index.php", http.StatusFound)
		return
	case "/index.php":
	default:
		http.NotFound(w, r)
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		h.log.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	if query.Has("mylogout") {
		h.logout(w, r, session)
		return
	}

	switch query.Get("controller") {
	case "", "index":
		h.home(w, r, session)
	case "search":
		h.search(w, r, session)
	case "authentication":
		h.authentication(w, r, session)
	case "my-account":
		h.myAccount(w, r, session)
	case "order":
		h.order(w, r, session)
	case "cart":
		h.cart(w, r, session)
	case "logout":
		h.logout(w, r, session)
	default:
		http.NotFound(w, r)
	}
}

// session resumes the cookie's session or starts a new one
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		session, err := h.carts.GetSession(cookie.Value)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}

	session, err := h.carts.StartSession()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Debug("session started", zap.String("session", session.ID))
	return session, nil
}

func (h *Handler) render(w http.ResponseWriter, name string, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages[name].ExecuteTemplate(w, "layout", data); err != nil {
		h.log.Error("template render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	data := newPage(session, "index", StoreName)
	data.Products = h.catalog
	h.render(w, "home", data)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	term := r.URL.Query().Get("search_query")
	data := newPage(session, "search", "Search - "+StoreName)
	data.SearchQuery = term
	data.Products = h.catalog.Search(term)
	switch {
	case term == "":
		data.Alert = EmptySearchAlert
	case len(data.Products) == 0:
		data.Alert = NoResultsAlert
	}
	h.render(w, "search", data)
}

func (h *Handler) authentication(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	data := newPage(session, "authentication", "Login - "+StoreName)
	data.Back = r.URL.Query().Get("back")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		email, password := r.PostForm.Get("email"), r.PostForm.Get("passwd")
		data.Back = r.PostForm.Get("back")

		err := h.carts.SignIn(session.ID, email, password)
		if err == nil {
			h.log.Info("customer signed in", zap.String("session", session.ID), zap.String("email", email))
			http.Redirect(w, r, afterSignIn(data.Back), http.StatusSeeOther)
			return
		}
		if errors.Is(err, ErrSessionNotFound) {
			h.log.Error("sign in failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.log.Info("sign in rejected", zap.String("session", session.ID), zap.Error(err))
		data.Alert = AlertText(err)
		data.Email = email
	}
	h.render(w, "authentication", data)
}

func afterSignIn(back string) string {
	if back == "order" {
		return "index.php?controller=order&step=1"
	}
	return "index.php?controller=my-account"
}

func authenticationURL(back string) string {
	return "index.php?controller=authentication&back=" + url.QueryEscape(back)
}

func (h *Handler) myAccount(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if !session.SignedIn() {
		http.Redirect(w, r, authenticationURL("my-account"), http.StatusFound)
		return
	}
	h.render(w, "my-account", newPage(session, "my-account", "My account - "+StoreName))
}

func (h *Handler) order(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if r.URL.Query().Get("step") == "1" {
		if !session.SignedIn() {
			http.Redirect(w, r, authenticationURL("order"), http.StatusFound)
			return
		}
		h.render(w, "address", newPage(session, "order", "Order - "+StoreName))
		return
	}
	h.render(w, "order", newPage(session, "order", "Order - "+StoreName))
}

// AddResponse is the JSON body answering an ajax add-to-cart
type AddResponse struct {
	Product       string `json:"product"`
	Price         string `json:"price"`
	Quantity      int    `json:"quantity"`
	CartQuantity  int    `json:"cart_quantity"`
	ProductsTotal string `json:"products_total"`
	Shipping      string `json:"shipping"`
	Total         string `json:"total"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// cart applies one cart mutation. Ajax adds answer JSON; everything else
// redirects back to a page.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request, session *Session) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if r.Form.Get("add") != "" {
		h.addToCart(w, r, session)
		return
	}

	index, err := strconv.Atoi(r.Form.Get("line"))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	switch op := r.Form.Get("op"); op {
	case "up":
		err = h.carts.IncrementLine(session.ID, index)
	case "down":
		err = h.carts.DecrementLine(session.ID, index)
	case "delete":
		err = h.carts.RemoveLine(session.ID, index)
	default:
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Warn("cart update failed", zap.String("session", session.ID), zap.Error(err))
		if errors.Is(err, models.ErrLineNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "index.php?controller=order", http.StatusSeeOther)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request, session *Session) {
	ajax := r.Form.Get("ajax") == "true"
	id, err := strconv.Atoi(r.Form.Get("id_product"))
	if err != nil {
		h.addFailed(w, ajax, "Invalid product", http.StatusBadRequest)
		return
	}

	result, err := h.carts.AddProduct(session.ID, id)
	if err != nil {
		h.log.Warn("add to cart failed", zap.String("session", session.ID), zap.Int("product", id), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, ErrProductNotFound) {
			status = http.StatusNotFound
		}
		h.addFailed(w, ajax, "Failed to add product", status)
		return
	}
	h.log.Info("product added", zap.String("session", session.ID), zap.String("product", result.Product.Name))

	if !ajax {
		http.Redirect(w, r, "index.php?controller=order", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AddResponse{
		Product:       result.Product.Name,
		Price:         result.Product.Price.String(),
		Quantity:      1,
		CartQuantity:  result.Cart.TotalQuantity(),
		ProductsTotal: result.Cart.ProductTotal().String(),
		Shipping:      result.Cart.Shipping.String(),
		Total:         result.Cart.GrandTotal().String(),
	}); err != nil {
		h.log.Error("failed to encode add response", zap.Error(err))
	}
}

func (h *Handler) addFailed(w http.ResponseWriter, ajax bool, message string, status int) {
	if !ajax {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request, session *Session) {
	if err := h.carts.SignOut(session.ID); err != nil {
		h.log.Error("sign out failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.log.Info("customer signed out", zap.String("session", session.ID))
	http.Redirect(w, r, "index.php", http.StatusFound)
}
