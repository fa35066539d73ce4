package storefront

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/adyen/shopcheck/internal/models"
)

// Sign-in validation errors, checked in this order
var (
	ErrEmailRequired    = errors.New("email address required")
	ErrEmailInvalid     = errors.New("invalid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordInvalid  = errors.New("invalid password")
	ErrAuthFailed       = errors.New("authentication failed")
)

var alertTexts = map[error]string{
	ErrEmailRequired:    "An email address required.",
	ErrEmailInvalid:     "Invalid email address.",
	ErrPasswordRequired: "Password is required.",
	ErrPasswordInvalid:  "Invalid password.",
	ErrAuthFailed:       "Authentication failed.",
}

// AlertText returns the message the sign-in form shows for err
func AlertText(err error) string {
	for target, text := range alertTexts {
		if errors.Is(err, target) {
			return text
		}
	}
	return "An error occurred."
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 5

// Account is the one customer the storefront knows
type Account struct {
	Email    string
	Password string
}

// AddResult is the outcome of adding one product
type AddResult struct {
	Product Product
	Cart    models.Cart
}

// CartService handles cart and sign-in logic per session
type CartService interface {
	StartSession() (*Session, error)
	GetSession(id string) (*Session, error)
	AddProduct(sessionID string, productID int) (*AddResult, error)
	IncrementLine(sessionID string, line int) error
	DecrementLine(sessionID string, line int) error
	RemoveLine(sessionID string, line int) error
	SignIn(sessionID, email, password string) error
	SignOut(sessionID string) error
}

// CartServiceImpl implements CartService
type CartServiceImpl struct {
	sessions SessionRepository
	catalog  Catalog
	account  Account
	shipping models.Amount
}

// NewCartService creates a new cart service
func NewCartService(sessions SessionRepository, catalog Catalog, account Account, shipping models.Amount) CartService {
	return &CartServiceImpl{
		sessions: sessions,
		catalog:  catalog,
		account:  account,
		shipping: shipping,
	}
}

// StartSession creates an empty session
func (s *CartServiceImpl) StartSession() (*Session, error) {
	session, err := s.sessions.CreateSession(s.shipping)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by id
func (s *CartServiceImpl) GetSession(id string) (*Session, error) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// update loads a session, applies fn and stores the result
func (s *CartServiceImpl) update(id string, fn func(*Session) error) (*Session, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessions.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// AddProduct adds one unit of a catalog product
func (s *CartServiceImpl) AddProduct(sessionID string, productID int) (*AddResult, error) {
	product, err := s.catalog.Find(productID)
	if err != nil {
		return nil, err
	}
	session, err := s.update(sessionID, func(session *Session) error {
		return session.Cart.Add(models.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	})
	if err != nil {
		return nil, err
	}
	return &AddResult{Product: product, Cart: session.Cart}, nil
}

// IncrementLine adds one unit to a cart line
func (s *CartServiceImpl) IncrementLine(sessionID string, line int) error {
	_, err := s.update(sessionID, func(session *Session) error {
		return session.Cart.Increment(line)
	})
	return err
}

// DecrementLine removes one unit from a cart line. The last unit removes the line.
func (s *CartServiceImpl) DecrementLine(sessionID string, line int) error {
	_, err := s.update(sessionID, func(session *Session) error {
		if line >= 0 && line < len(session.Cart.Items) && session.Cart.Items[line].Quantity == 1 {
			return session.Cart.Remove(line)
		}
		return session.Cart.Decrement(line)
	})
	return err
}

// RemoveLine deletes a cart line
func (s *CartServiceImpl) RemoveLine(sessionID string, line int) error {
	_, err := s.update(sessionID, func(session *Session) error {
		return session.Cart.Remove(line)
	})
	return err
}

// ValidateCredentials applies the sign-in form checks in order
func ValidateCredentials(email, password string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case !emailPattern.MatchString(email):
		return ErrEmailInvalid
	case password == "":
		return ErrPasswordRequired
	case len(password) < minPasswordLength:
		return ErrPasswordInvalid
	}
	return nil
}

// SignIn attaches the account to the session when the credentials match
func (s *CartServiceImpl) SignIn(sessionID, email, password string) error {
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if email != s.account.Email || password != s.account.Password {
		return ErrAuthFailed
	}
	_, err := s.update(sessionID, func(session *Session) error {
		session.Customer = email
		return nil
	})
	return err
}

// SignOut detaches the customer and keeps the cart
func (s *CartServiceImpl) SignOut(sessionID string) error {
	_, err := s.update(sessionID, func(session *Session) error {
		session.Customer = ""
		return nil
	})
	return err
}
