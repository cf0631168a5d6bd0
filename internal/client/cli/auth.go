package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getCode are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getCode       = GetCode
)

// Login runs the one-time-code flow: it asks for the e-mail and an
// optional name, requests a code, reads it and verifies it. On success the
// dashboard is printed. Validation and server errors are returned for the
// REPL to report; the user may simply run login again.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Имя (необязательно)", a.out)
	if err != nil {
		return err
	}

	if err := a.ctrl.RequestCode(ctx, email, fullName); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Код отправлен на %s", email))

	code, err := getCode(a.reader, a.out)
	if err != nil {
		return err
	}
	if err := a.ctrl.Verify(ctx, email, code); err != nil {
		return err
	}

	a.printDashboard()
	return nil
}

// Logout evicts the credential and returns to the login view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.ctrl.Logout(ctx); err != nil {
		return err
	}
	a.println("Вы вышли из аккаунта")
	return nil
}
