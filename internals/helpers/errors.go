package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/helpers/apperr"
)

// WriteError renders err with the error envelope. Typed application errors keep
// their message; storage errors are classified by SQLSTATE; anything else is a 500
// whose detail only reaches the log.
func WriteError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindValidation:
			if len(ae.Fields) > 0 {
				return JsonValidationError(c, ae.Message, ae.Fields)
			}
			return jsonErrorCode(c, fiber.StatusUnprocessableEntity, ae.Message, "VALIDATION_ERROR")
		case apperr.KindCapacity:
			return jsonErrorCode(c, fiber.StatusConflict, ae.Message, "EVENT_FULL")
		case apperr.KindNotFound:
			return JsonError(c, fiber.StatusNotFound, ae.Message)
		case apperr.KindConflict:
			return JsonError(c, fiber.StatusConflict, ae.Message)
		case apperr.KindForbidden:
			return JsonError(c, fiber.StatusForbidden, ae.Message)
		case apperr.KindTransient:
			logRequestError(c, err).Warn("transient storage failure")
			return JsonError(c, fiber.StatusServiceUnavailable, ae.Message)
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, "", ValidationFields(ve))
	}

	if status, msg, ok := mapStorageError(err); ok {
		if status >= 500 {
			logRequestError(c, err).Warn("storage error")
		}
		return JsonError(c, status, msg)
	}

	logRequestError(c, err).Error("unhandled error")
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

func mapStorageError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "not found", true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusConflict, "duplicate data (unique violation)", true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fiber.StatusBadRequest, "referenced record not found", true
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fiber.StatusUnprocessableEntity, "value violates a constraint", true
	}

	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}
	switch code {
	case "23505":
		return fiber.StatusConflict, "duplicate data (unique violation)", true
	case "23503":
		return fiber.StatusBadRequest, "referenced record not found", true
	case "23514":
		return fiber.StatusUnprocessableEntity, "value violates a constraint", true
	case "40001", "40P01", "55P03", "57014":
		// serialization failure, deadlock, lock timeout, statement timeout
		return fiber.StatusServiceUnavailable, apperr.ErrTransient.Message, true
	}

	if apperr.IsTransient(err) {
		return fiber.StatusServiceUnavailable, apperr.ErrTransient.Message, true
	}
	return 0, "", false
}

// ValidationFields flattens validator errors into json field name -> tags.
func ValidationFields(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Tag())
	}
	return out
}

func logRequestError(c *fiber.Ctx, err error) *log.Entry {
	return log.WithFields(log.Fields{
		"request_id": c.Locals("reqid"),
		"method":     c.Method(),
		"path":       c.Path(),
	}).WithError(err)
}
