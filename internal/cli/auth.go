package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/credentials"
	"github.com/mverma/stride/internal/logger"
)

type LoginCmd struct {
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password (prompted when omitted)." short:"p"`
}

func (c *LoginCmd) Run(appCtx *Context) error {
	email := strings.TrimSpace(c.Email)
	password := c.Password

	if email == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&email).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("email cannot be empty")
						}
						return nil
					}),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("password cannot be empty")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
	defer cancel()

	token, message, err := appCtx.Client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	if err := appCtx.Creds.Set(token); err != nil {
		return err
	}

	logger.Info("logged in", "email", email)
	if message == "" {
		message = "Login successful."
	}
	fmt.Println(message)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(appCtx *Context) error {
	if err := appCtx.Creds.Clear(); err != nil {
		if err == credentials.ErrNotFound {
			fmt.Println("Not logged in.")
			return nil
		}
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

type SignupCmd struct {
	Name     string `help:"Display name." required:""`
	Email    string `help:"Account email." required:""`
	Phone    string `help:"Phone number." required:""`
	Password string `help:"Account password (prompted when omitted)."`
	Github   string `help:"GitHub profile link."`
	Linkedin string `help:"LinkedIn profile link."`
	Skills   string `help:"Comma-separated skills."`
}

func (c *SignupCmd) Run(appCtx *Context) error {
	password := c.Password
	if password == "" {
		var confirm string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if len(s) < 8 {
							return fmt.Errorf("password must be at least 8 characters")
						}
						return nil
					}),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
	defer cancel()

	message, err := appCtx.Client.Signup(ctx, api.SignupRequest{
		Name:         strings.TrimSpace(c.Name),
		EmailID:      strings.TrimSpace(c.Email),
		PhoneNumber:  strings.TrimSpace(c.Phone),
		Password:     password,
		GithubLink:   strings.TrimSpace(c.Github),
		LinkedinLink: strings.TrimSpace(c.Linkedin),
		Skills:       strings.TrimSpace(c.Skills),
	})
	if err != nil {
		return err
	}

	if message == "" {
		message = "Account created. Run 'stride login' to sign in."
	}
	fmt.Println(message)
	return nil
}
