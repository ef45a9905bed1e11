package pages

import "github.com/playwright-community/playwright-go"

// Login is the sign in form, the point of sale picker and the PIN lock screen
type Login struct {
	page playwright.Page

	SignInModal     playwright.Locator
	ClientCode      playwright.Locator
	Username        playwright.Locator
	Password        playwright.Locator
	LoginButton     playwright.Locator
	LockPosPinLogin playwright.Locator
	PinInput        playwright.Locator
	PinSignIn       playwright.Locator
}

// NewLogin creates the login page object
func NewLogin(page playwright.Page) *Login {
	return &Login{
		page:            page,
		SignInModal:     page.GetByTestId("login-container"),
		ClientCode:      page.GetByTestId("clientCode"),
		Username:        page.GetByTestId("username"),
		Password:        page.GetByTestId("password"),
		LoginButton:     page.GetByTestId("login-clockin-button"),
		LockPosPinLogin: page.Locator("text=PIN login"),
		PinInput:        page.Locator(`input[name="pin"]`),
		PinSignIn:       page.Locator("text=Sign in"),
	}
}

// SignIn fills the sign in form and submits it
func (l *Login) SignIn(clientCode, username, password string) error {
	if err := l.ClientCode.Fill(clientCode); err != nil {
		return err
	}
	if err := l.Username.Fill(username); err != nil {
		return err
	}
	if err := l.Password.Fill(password); err != nil {
		return err
	}
	return l.LoginButton.Click()
}

// PointOfSale returns the picker entry of the named location
func (l *Login) PointOfSale(location string) playwright.Locator {
	return l.page.Locator("text=" + location)
}

// SelectPOS picks the named location after sign in
func (l *Login) SelectPOS(location string) error {
	return l.PointOfSale(location).Click()
}

// InsertPIN unlocks a locked register
func (l *Login) InsertPIN(pin string) error {
	if err := l.PinInput.Fill(pin); err != nil {
		return err
	}
	return l.PinSignIn.Click()
}
