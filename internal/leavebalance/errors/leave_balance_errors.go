package leavebalanceerrors

import (
	"net/http"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found for this personnel and year",
		http.StatusNotFound,
	)
	ErrInvalidPersonnelID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid personnel id",
		http.StatusBadRequest,
	)
	ErrInvalidBalanceField = apperror.New(
		apperror.CodeInvalidInput,
		"unknown balance field",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"balance changed concurrently and can no longer cover the deduction",
		http.StatusConflict,
	)
)
