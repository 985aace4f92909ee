package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

func (r *Runner) login(ctx context.Context, args []string) error {
	fs := r.flags("login")
	email := fs.String("email", "", "correo")
	password := fs.String("password", "", "contraseña")
	if err := parse(fs, args); err != nil {
		return err
	}
	sess, err := r.Auth.Login(ctx, ports.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	r.welcome(sess)
	return nil
}

func (r *Runner) register(ctx context.Context, args []string) error {
	fs := r.flags("register")
	name := fs.String("name", "", "nombre")
	email := fs.String("email", "", "correo")
	password := fs.String("password", "", "contraseña")
	if err := parse(fs, args); err != nil {
		return err
	}
	sess, err := r.Auth.Register(ctx, ports.RegisterInput{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Stdout, "Registro exitoso")
	r.welcome(sess)
	return nil
}

func (r *Runner) logout(ctx context.Context, _ []string) error {
	if err := r.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.Stdout, "Sesión cerrada")
	return nil
}

func (r *Runner) whoami(ctx context.Context, _ []string) error {
	sess, err := r.Auth.Current(ctx)
	if err != nil {
		return err
	}
	r.welcome(sess)
	for _, f := range []struct{ label, value string }{
		{"Teléfono", sess.Phone},
		{"Dirección", sess.Address},
		{"Rol", sess.Role},
	} {
		if f.value != "" {
			fmt.Fprintf(r.Stdout, "%s: %s\n", f.label, f.value)
		}
	}
	if sess.EmailVerifiedAt == "" {
		fmt.Fprintln(r.Stdout, "Correo sin verificar")
	}
	return nil
}

func (r *Runner) welcome(sess *domain.Session) {
	fmt.Fprintf(r.Stdout, "Bienvenido, %s\n", sess.Name)
	if sess.Email != "" {
		fmt.Fprintln(r.Stdout, sess.Email)
	}
}

func (r *Runner) status(ctx context.Context, _ []string) error {
	data, err := r.Auth.Data(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Stdout, data.Message)
	if data.NgrokURL != "" {
		fmt.Fprintf(r.Stdout, "ngrok_url: %s\n", data.NgrokURL)
	}
	return nil
}

func (r *Runner) baseURL(ctx context.Context, args []string) error {
	fs := r.flags("baseurl")
	resolve := fs.Bool("resolve", false, "volver a consultar la URL publicada")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *resolve {
		r.BaseURLs.Reset()
	}
	fmt.Fprintln(r.Stdout, r.BaseURLs.BaseURL(ctx))
	return nil
}

func (r *Runner) passwordCheck(_ context.Context, args []string) error {
	fs := r.flags("password-check")
	password := fs.String("password", "", "contraseña a evaluar")
	if err := parse(fs, args); err != nil {
		return err
	}
	req := domain.CheckPassword(*password)
	fmt.Fprintln(r.Stdout, strings.Join(req.Checklist(), "\n"))
	if req.Satisfied() {
		fmt.Fprintln(r.Stdout, "La contraseña cumple con todos los requisitos")
	}
	return nil
}

func (r *Runner) profile(ctx context.Context, args []string) error {
	// Omitted fields keep the stored values, like the prefilled form.
	sess, err := r.Auth.Current(ctx)
	if err != nil {
		return err
	}
	fs := r.flags("profile")
	var in ports.ProfileInput
	fs.StringVar(&in.Name, "name", sess.Name, "nombre")
	fs.StringVar(&in.Phone, "telefono", sess.Phone, "teléfono de 10 dígitos")
	fs.StringVar(&in.Address, "direccion", sess.Address, "dirección")
	fs.StringVar(&in.CurrentPassword, "current", "", "contraseña actual")
	fs.StringVar(&in.NewPassword, "new", "", "nueva contraseña")
	fs.StringVar(&in.PasswordConfirmation, "confirm", "", "confirmación de la nueva contraseña")
	if err := parse(fs, args); err != nil {
		return err
	}
	user, err := r.Profile.Update(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "Perfil actualizado: %s\n", user.Name)
	return nil
}
