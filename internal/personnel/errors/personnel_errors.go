package personnelerrors

import (
	"net/http"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/apperror"
)

var (
	ErrPersonnelNotFound = apperror.New(
		apperror.CodeNotFound,
		"personnel not found",
		http.StatusNotFound,
	)
	ErrInvalidPersonnelID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid personnel id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date_hired format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid personnel status transition",
		http.StatusBadRequest,
	)
	ErrEmptyPhoto = apperror.New(
		apperror.CodeInvalidInput,
		"photo file is required",
		http.StatusBadRequest,
	)
)
