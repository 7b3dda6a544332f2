package services

import (
	"errors"
	"time"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// Outcome labels reported to the metrics recorder
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeDangling          = "dangling"
	OutcomeInvalidTransition = "invalid_transition"
	OutcomeNotFound          = "not_found"
	OutcomeItemReferenced    = "item_referenced"
	OutcomePersistence       = "persistence"
)

// Outcome classifies an operation error into a metrics label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case entities.IsValidation(err):
		return OutcomeValidation
	case entities.IsInsufficientStock(err):
		return OutcomeInsufficientStock
	case entities.IsDanglingReference(err):
		return OutcomeDangling
	case errors.Is(err, entities.ErrInvalidTransition):
		return OutcomeInvalidTransition
	case errors.Is(err, entities.ErrItemReferenced):
		return OutcomeItemReferenced
	case entities.IsPersistence(err):
		return OutcomePersistence
	case errors.Is(err, entities.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomePersistence
	}
}

// isDomainError reports errors the caller must see unchanged
func isDomainError(err error) bool {
	return entities.IsValidation(err) ||
		entities.IsInsufficientStock(err) ||
		entities.IsDanglingReference(err) ||
		entities.IsPersistence(err) ||
		errors.Is(err, entities.ErrInvalidTransition) ||
		errors.Is(err, entities.ErrItemReferenced) ||
		errors.Is(err, entities.ErrNotFound)
}

// classify passes domain errors through and wraps everything else as a failed write group
func classify(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return &entities.PersistenceError{Op: op, Err: err}
}

// observe records the operation outcome; use as defer c.observe(op, start, &err)
func (c serviceConfig) observe(op string, start time.Time, err *error) {
	outcome := Outcome(*err)
	c.metrics.ObserveOperation(op, outcome, c.now().Sub(start))
	if *err != nil {
		c.logger.Warn("operation rejected", "op", op, "outcome", outcome, "error", *err)
	}
}
