package leaveerrors

import (
	"net/http"

	"github.com/mdvohra/LMS-app/internal/shared/apperror"
)

var (
	ErrInvalidApplicationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid application id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start date must be before end date",
		http.StatusBadRequest,
	)
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave application has already been decided",
		http.StatusConflict,
	)
	ErrRemarksTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"remarks must be less than 500 characters",
		http.StatusBadRequest,
	)
	ErrInappropriateRemarks = apperror.New(
		apperror.CodeInappropriateContent,
		"remarks contain inappropriate content",
		http.StatusBadRequest,
	)
	ErrValidationFailed = apperror.New(
		apperror.CodeInvalidInput,
		"leave application input is invalid",
		http.StatusBadRequest,
	)
)
