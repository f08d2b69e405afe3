package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrMaterialNotFound    = errors.New("material not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrHistoryNotFound     = errors.New("exam history not found")
	ErrCertificateNotFound = errors.New("certificate not found")

	ErrInvalidProgress     = errors.New("progress must be between 0 and 100")
	ErrUnknownMaterialType = errors.New("unknown material type")
	ErrUnknownQuestionType = errors.New("unknown question type")

	ErrNotEligible        = errors.New("learner not eligible for the exam")
	ErrCertificateExists  = errors.New("certificate already issued for this learner")
	ErrCertificateNumber  = errors.New("certificate number conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEnrollmentInactive = errors.New("enrollment is not active")
)
