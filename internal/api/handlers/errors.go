package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
	"github.com/ksr-21/smartstock/internal/service"
)

var badRequestErrors = []error{
	domain.ErrUnknownStatus,
	service.ErrInvalidQuantity,
	service.ErrEmptyBill,
	service.ErrNotSupplier,
	service.ErrNoSupplierPhone,
	errInvalidParam,
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
