package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// View is the model handed to the renderer: a view name, its data and the
// flash messages pending for the session.
type View struct {
	Name     string              `json:"view"`
	Data     fiber.Map           `json:"data"`
	Messages map[string][]string `json:"messages"`
}

// render pops the session flashes into the view model and writes it.
func render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.JSON(View{Name: name, Data: data, Messages: session.Current(c).Flashes()})
}

func redirectWithFlash(c *fiber.Ctx, kind, message, target string) error {
	session.Current(c).AddFlash(kind, message)
	return c.Redirect(target)
}

// flashOrFail reports validation and credential errors through a flash and a
// redirect to back. Every other error is returned to the error middleware.
func flashOrFail(c *fiber.Ctx, err error, back string) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.HTTPStatus {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return redirectWithFlash(c, session.FlashError, domainErr.Message, back)
		}
	}
	return err
}

// requestContext carries the authenticated principal into service calls.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if principal, ok := auth.PrincipalFromContext(c); ok {
		ctx = service.WithActor(ctx, events.Actor{UserID: principal.ID, Role: principal.Role})
	}
	return ctx
}

func principalID(c *fiber.Ctx) int64 {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.ID
	}
	return 0
}

// pathID parses :id. Anything that is not a positive integer cannot name a row.
func pathID(c *fiber.Ctx, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(resource)
	}
	return id, nil
}

func bindForm(c *fiber.Ctx, form any) error {
	if err := c.BodyParser(form); err != nil {
		return apperrors.NewValidationError("Formulario no válido")
	}
	return dto.Validate(form)
}

func queryFilter(c *fiber.Ctx, fields []repository.Field) repository.Filter {
	return repository.FilterFromParams(func(key string) string { return c.Query(key) }, fields)
}

func editPath(base string, id int64) string {
	return base + "/actualizar/" + strconv.FormatInt(id, 10)
}
