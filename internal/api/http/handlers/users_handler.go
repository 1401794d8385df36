package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

const usersBase = "/usuarios"

// UsersHandler exposes account administration to admins.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// NewForm GET /usuarios/alta.
func (h *UsersHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "usuarios/alta", fiber.Map{"roles": []domain.Role{domain.RoleAdmin, domain.RoleTecnico, domain.RoleUsuario}})
}

// Create POST /usuarios/alta. The password is stored as a bcrypt hash.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	back := usersBase + "/alta"
	var form dto.UserForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	_, err := h.users.Create(requestContext(c), userInput(form, true))
	if err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(usersBase + "/listar")
}

// List GET /usuarios/listar.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "usuarios/listar", fiber.Map{"usuarios": users})
}

// EditForm GET /usuarios/actualizar/:id.
func (h *UsersHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Usuario")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "usuarios/actualizar", fiber.Map{
		"usuario": user,
		"roles":   []domain.Role{domain.RoleAdmin, domain.RoleTecnico, domain.RoleUsuario},
	})
}

// Update POST /usuarios/actualizar/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Usuario")
	if err != nil {
		return err
	}
	back := editPath(usersBase, id)
	var form dto.UserForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	if err := h.users.Update(requestContext(c), id, userInput(form, false)); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(usersBase + "/listar")
}

// Delete POST /usuarios/eliminar/:id. Accounts referenced by records are kept and reported.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Usuario")
	if err != nil {
		return err
	}
	if err := h.users.Delete(requestContext(c), id); err != nil {
		return flashOrFail(c, err, usersBase+"/listar")
	}
	return redirectWithFlash(c, session.FlashSuccess, "Usuario eliminado exitosamente", usersBase+"/listar")
}

func userInput(form dto.UserForm, defaultActive bool) service.UserInput {
	return service.UserInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.Role(form.Role),
		Active:   form.IsActive(defaultActive),
	}
}
