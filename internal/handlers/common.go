package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"BidVault/internal/models"
)

var validate = validator.New()

// parseAndValidate binds the request body and runs the struct validations.
func parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

// serviceError maps domain errors to HTTP responses. Validation and state
// conflicts carry the domain message; everything else is a generic 500 so
// internals stay out of responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, models.ErrFundNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})

	case errors.Is(err, models.ErrWeightsInvalid),
		errors.Is(err, models.ErrWithdrawalBounds),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrSlotsExceeded),
		errors.Is(err, models.ErrNoBidForUser):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})

	case errors.Is(err, models.ErrSelectionFrozen),
		errors.Is(err, models.ErrSelectionCancelled),
		errors.Is(err, models.ErrSelectionIncomplete),
		errors.Is(err, models.ErrPoolNotFunded),
		errors.Is(err, models.ErrPoolAlreadyFunded),
		errors.Is(err, models.ErrFundAlreadyLocked),
		errors.Is(err, models.ErrFundNotLocked),
		errors.Is(err, models.ErrFundNotReleased),
		errors.Is(err, models.ErrFundAlreadyMoved),
		errors.Is(err, models.ErrWalletNotActive),
		errors.Is(err, models.ErrProjectAlreadyComplete):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})

	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
