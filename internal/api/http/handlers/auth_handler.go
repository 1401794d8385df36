package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	auth *service.AuthService
	now  func() time.Time
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, now: time.Now}
}

// Root GET /.
func (h *AuthHandler) Root(c *fiber.Ctx) error {
	return c.Redirect(auth.LoginPath)
}

// LogupPage GET /logup.
func (h *AuthHandler) LogupPage(c *fiber.Ctx) error {
	return render(c, "logup", nil)
}

// Signup POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var form dto.SignupForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, auth.LoginPath)
	}
	_, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return flashOrFail(c, err, auth.LoginPath)
	}
	return redirectWithFlash(c, session.FlashSuccess, "Registro exitoso. Ahora puedes iniciar sesión.", auth.LoginPath)
}

// Login POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, auth.LoginPath)
	}
	user, err := h.auth.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return flashOrFail(c, err, auth.LoginPath)
	}

	sess := session.Current(c)
	sess.Login(session.User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, h.now())
	return redirectWithFlash(c, session.FlashSuccess, "¡Bienvenido! Has iniciado sesión correctamente.", auth.HomePath)
}

// Index GET /index.
func (h *AuthHandler) Index(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return render(c, "index", fiber.Map{"user": principal})
}

// Logout GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session.Current(c).Destroy()
	return c.Redirect(auth.LoginPath)
}
