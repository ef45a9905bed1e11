package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// ClockInOut is the employee clock in and clock out dialog
type ClockInOut struct {
	page playwright.Page

	ClockInModal         playwright.Locator
	ClockOutModal        playwright.Locator
	ClockInOutBtn        playwright.Locator
	CloseBtn             playwright.Locator
	EmployeeSelect       playwright.Locator
	PasswordInput        playwright.Locator
	NoClockedInEmployees playwright.Locator
	ClockedInEmployees   playwright.Locator
}

// NewClockInOut creates the clock in/out page object
func NewClockInOut(page playwright.Page) *ClockInOut {
	return &ClockInOut{
		page:                 page,
		ClockInModal:         page.GetByTestId("clock-in-modal"),
		ClockOutModal:        page.GetByTestId("clock-out-modal"),
		ClockInOutBtn:        page.GetByTestId("save-btn"),
		CloseBtn:             page.GetByTestId("custom-close-button"),
		EmployeeSelect:       page.GetByTestId("employee-select"),
		PasswordInput:        page.GetByTestId("password"),
		NoClockedInEmployees: page.GetByTestId("no-clocked-in-employees"),
		ClockedInEmployees:   page.GetByTestId("employee-container"),
	}
}

// Employee returns the clocked in entry of the named employee
func (c *ClockInOut) Employee(name string) playwright.Locator {
	return c.page.Locator(fmt.Sprintf(`[data-test-key=%q]`, name))
}

// ClickClockIn submits the clock in form as filled
func (c *ClockInOut) ClickClockIn() error { return c.ClockInOutBtn.Click() }

// ClickClockOut submits the clock out form as filled
func (c *ClockInOut) ClickClockOut() error {
	return c.ClockOutModal.Locator(c.ClockInOutBtn).Click()
}

// CloseClockOut closes the clock out form
func (c *ClockInOut) CloseClockOut() error {
	return c.ClockOutModal.Locator(c.CloseBtn).Click()
}

// ClockIn clocks the preselected employee in with a password or PIN
func (c *ClockInOut) ClockIn(secret string) error {
	if err := c.PasswordInput.Locator("input").Fill(secret); err != nil {
		return err
	}
	return c.ClockInOutBtn.Click()
}

// OpenClockOut opens the clock out form of the named employee
func (c *ClockInOut) OpenClockOut(employee string) error {
	return c.Employee(employee).Click()
}

// ClockOut clocks the named employee out with a password or PIN
func (c *ClockInOut) ClockOut(employee, secret string) error {
	if err := c.OpenClockOut(employee); err != nil {
		return err
	}
	if err := c.ClockOutModal.Locator(c.PasswordInput).Fill(secret); err != nil {
		return err
	}
	return c.ClickClockOut()
}
