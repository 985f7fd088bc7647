package screens

import (
	"context"
	"fmt"
	"io"

	"github.com/tobiusaolo/Cariya-wallet/models"
	"github.com/tobiusaolo/Cariya-wallet/session"
	"github.com/tobiusaolo/Cariya-wallet/validate"
)

// Login validates the form client-side, authenticates against the server and
// establishes the session. Validation failures never reach the network.
func Login(ctx context.Context, d Deps, w io.Writer, mobileNumber, password string) error {
	mobileNumber = validate.NormalizePhone(mobileNumber)
	if err := validate.Login(mobileNumber, password); err != nil {
		return err
	}

	resp, err := d.Client.Login(ctx, models.LoginRequest{
		MobileNumber: mobileNumber,
		Password:     password,
	})
	if err != nil {
		return fetchFailed(w, err)
	}

	err = d.Session.SignIn(session.CredentialsResult{
		Token:  resp.Token,
		UserID: resp.UserID,
		UserInfo: models.UserInfo{
			"mobileNumber": mobileNumber,
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Signed in as %s\n", d.Session.UserID())
	return nil
}

// Register validates the registration form, creates the account and signs the
// new user in with the generated identifier.
func Register(ctx context.Context, d Deps, w io.Writer, form models.Registration) error {
	form.MobileNumber = validate.NormalizePhone(form.MobileNumber)
	if err := validate.Registration(form); err != nil {
		return err
	}

	resp, err := d.Client.Register(ctx, form)
	if err != nil {
		return fetchFailed(w, err)
	}

	err = d.Session.SignUp(session.RegistrationResult{
		GeneratedID: resp.GeneratedID,
		UserInfo: models.UserInfo{
			"firstName":    form.FirstName,
			"surname":      form.Surname,
			"mobileNumber": form.MobileNumber,
			"numChildren":  form.NumChildren,
			"childrenAges": form.AgesOfChildren,
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Registered. Your ID is %s, keep it safe.\n", d.Session.UserID())
	return nil
}

// Logout clears the session. Safe to call when already signed out.
func Logout(d Deps, w io.Writer) {
	d.Session.SignOut()
	fmt.Fprintln(w, "Signed out.")
}
