package leaverequesterrors

import (
	"net/http"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/apperror"
)

var (
	ErrInvalidPersonnelID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid personnel id",
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
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrMissingLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type is required",
		http.StatusBadRequest,
	)
	ErrNoDisposition = apperror.New(
		apperror.CodeInvalidInput,
		"approve_for must be chosen before a breakdown can be produced",
		http.StatusBadRequest,
	)
	ErrPersonnelNotActive = apperror.New(
		apperror.CodeInvalidState,
		"personnel is not active",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"a leave request already covers part of this period",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrStaleBalance = apperror.New(
		apperror.CodeConflict,
		"leave balance changed while approving, please recalculate",
		http.StatusConflict,
	)
)
