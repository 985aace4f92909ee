// Package cli is the command-line front end of the client core.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
	"github.com/purificadora/app-client/internal/core/validation"
)

// BaseURLs reports and re-resolves the backend base URL.
type BaseURLs interface {
	BaseURL(ctx context.Context) string
	Reset()
}

// Runner executes one command per Run call.
type Runner struct {
	Auth     ports.AuthService
	Profile  ports.ProfileService
	Products ports.ProductService
	Orders   ports.OrderService
	BaseURLs BaseURLs
	// NewIdempotencyKey returns the key sent with each order creation.
	NewIdempotencyKey func() string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type command struct {
	usage string
	run   func(r *Runner, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"login":          {"login -email E -password P", (*Runner).login},
	"register":       {"register -name N -email E -password P", (*Runner).register},
	"logout":         {"logout", (*Runner).logout},
	"whoami":         {"whoami", (*Runner).whoami},
	"status":         {"status", (*Runner).status},
	"baseurl":        {"baseurl [-resolve]", (*Runner).baseURL},
	"password-check": {"password-check -password P", (*Runner).passwordCheck},
	"profile":        {"profile -name N [-telefono T] [-direccion D] [-current C -new N -confirm N]", (*Runner).profile},
	"productos":      {usageProductos, (*Runner).productos},
	"pedidos":        {usagePedidos, (*Runner).pedidos},
}

var commandOrder = []string{"login", "register", "logout", "whoami", "status", "baseurl", "password-check", "profile", "productos", "pedidos"}

// errUsage is reported after the usage text has already been printed.
var errUsage = errors.New("usage")

// Run executes args and returns the process exit status.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		r.usage()
		return 1
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(r.Stderr, "comando desconocido: %s\n", args[0])
		r.usage()
		return 1
	}
	if err := cmd.run(r, ctx, args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			r.report(err)
		}
		return 1
	}
	return 0
}

func (r *Runner) usage() {
	fmt.Fprintln(r.Stderr, "uso: purificadora <comando> [flags]")
	for _, name := range commandOrder {
		fmt.Fprintln(r.Stderr, "  "+commands[name].usage)
	}
}

func (r *Runner) report(err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fmt.Fprintln(r.Stderr, validation.GeneralMessage)
		for _, fe := range verrs {
			fmt.Fprintf(r.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	fmt.Fprintln(r.Stderr, domain.UserMessage(err, "Error"))
}

func (r *Runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Stderr)
	return fs
}

// parse wraps flag errors so that Run does not print them twice.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// confirm asks a yes/no question on Stdin; only "s", "si", "sí", "y" and "yes" accept.
func (r *Runner) confirm(question string) bool {
	fmt.Fprintf(r.Stdout, "%s [s/N]: ", question)
	if r.Stdin == nil {
		return false
	}
	line, _ := bufio.NewReader(r.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}
