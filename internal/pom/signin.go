package pom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adyen/shopcheck/internal/fixtures"
	"github.com/adyen/shopcheck/internal/locator"
	"go.uber.org/zap"
)

// AuthenticationHeading is the heading of the sign-in page
const AuthenticationHeading = "AUTHENTICATION"

// ErrLoginMismatch is returned when a login attempt shows something other
// than the fixture's expected text.
var ErrLoginMismatch = errors.New("login outcome does not match fixture")

// SignInPage covers sign-in, the account landing page and sign-out
type SignInPage struct {
	*BasePage
	loc locator.SignIn
}

// NewSignInPage creates the sign-in page object
func NewSignInPage(base *BasePage) *SignInPage {
	return &SignInPage{BasePage: base, loc: base.loc.SignIn}
}

// ClickSignInPage opens the sign-in page from the header link
func (p *SignInPage) ClickSignInPage() (bool, error) {
	if err := p.Hover(p.loc.SignInLink); err != nil {
		return false, err
	}
	if err := p.ClickWhenVisible(p.loc.SignInLink); err != nil {
		return false, err
	}
	return p.CheckAuthenticationPage()
}

// CheckAuthenticationPage waits for the authentication heading
func (p *SignInPage) CheckAuthenticationPage() (bool, error) {
	if _, err := p.WaitVisible(p.loc.AuthHeading); err != nil {
		return false, err
	}
	heading, err := p.TextOf(p.loc.AuthHeading)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(heading), AuthenticationHeading), nil
}

// FilloutAuthenticator clears both credential fields, fills them and submits
func (p *SignInPage) FilloutAuthenticator(username, password string) error {
	if err := p.ClearText(p.loc.Email); err != nil {
		return err
	}
	if err := p.EnterText(p.loc.Email, username); err != nil {
		return err
	}
	if err := p.ClearText(p.loc.Password); err != nil {
		return err
	}
	if err := p.EnterText(p.loc.Password, password); err != nil {
		return err
	}
	return p.ClickWhenVisible(p.loc.Submit)
}

// CheckLoginBehavior submits every fixture record in order. Records expecting
// the success marker must see the account heading; every other record must
// see its expect text as the validation alert. The success record ends on the
// account page, so it belongs last.
func (p *SignInPage) CheckLoginBehavior(records []fixtures.Login) error {
	for i, rec := range records {
		p.log.Info("login attempt", zap.Int("record", i), zap.String("use_case", rec.UseCase))
		if err := p.FilloutAuthenticator(rec.Username, rec.Password); err != nil {
			return fmt.Errorf("login record %d (%s): %w", i, rec.UseCase, err)
		}

		target, want := p.loc.Alert, rec.Expect
		if rec.ExpectsSuccess() {
			if _, err := p.WaitVisible(p.loc.WelcomeInfo); err != nil {
				return fmt.Errorf("login record %d (%s): %w", i, rec.UseCase, err)
			}
			target = p.loc.AccountHeading
		} else if _, err := p.WaitVisible(p.loc.Alert); err != nil {
			return fmt.Errorf("login record %d (%s): %w", i, rec.UseCase, err)
		}

		got, err := p.TextOf(target)
		if err != nil {
			return fmt.Errorf("login record %d (%s): %w", i, rec.UseCase, err)
		}
		got = strings.TrimSpace(got)
		if !matches(got, want, rec.ExpectsSuccess()) {
			return fmt.Errorf("%w: record %d (%s): want %q, got %q", ErrLoginMismatch, i, rec.UseCase, want, got)
		}
	}
	return nil
}

// headings may be rendered upper-cased by CSS; alerts are compared verbatim
func matches(got, want string, heading bool) bool {
	if heading {
		return strings.EqualFold(got, want)
	}
	return got == want
}

// ClickLogout signs out and waits for the sign-in link to return
func (p *SignInPage) ClickLogout() (bool, error) {
	if err := p.ClickWhenVisible(p.loc.Logout); err != nil {
		return false, err
	}
	return p.WaitVisible(p.loc.SignInLink)
}
